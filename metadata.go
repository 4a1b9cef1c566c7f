package vette

// Metadata carries per-message transient flags across pipeline stages.
// Created at pipeline entry and discarded at exit; the hold flow both
// reads and writes it.
type Metadata struct {
	// Approved is set by a trusted prior stage; when true no rule runs.
	Approved bool

	// FromUsenet marks posts gatewayed from a newsgroup, which never
	// get a sender acknowledgment.
	FromUsenet bool

	// Sender overrides the header-derived sender when set.
	Sender string

	// Lang overrides the language of the sender acknowledgment.
	Lang string

	// RejectionNotice is filled in at hold time for the approval
	// workflow downstream.
	RejectionNotice string
}
