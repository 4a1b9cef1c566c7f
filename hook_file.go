package vette

import (
	"fmt"
	"io"
	"os"
	"time"
)

const (
	fileHoldJson string = `{"type":"hold","occurred_at":"%s","list":"%s","sender":"%s","message_id":"%s","reason":"%s","token":"%s"}
`
)

type HookFile struct {
	file io.Writer
}

func (h *HookFile) Name() string {
	return "file"
}

func (h *HookFile) writer() (io.Writer, error) {
	if h.file != nil {
		return h.file, nil
	}

	path := os.Getenv("FILE_PATH")
	if len(path) == 0 {
		return nil, fmt.Errorf("missing path for file, please set `FILE_PATH`")
	}

	var err error
	h.file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile error: %s", err)
	}

	return h.file, nil
}

func (h *HookFile) AfterInit() {
}

func (h *HookFile) AfterHold(d *AfterHoldData) {
	writer, err := h.writer()
	if err != nil {
		fmt.Printf("[%s] %s\n", h.Name(), err)
		return
	}

	if _, err := fmt.Fprintf(writer, fileHoldJson, d.OccurredAt.Format(time.RFC3339),
		d.List, d.Sender, d.MessageID, d.Reason, d.Token); err != nil {
		fmt.Printf("[%s] file append error: %s\n", h.Name(), err)
	}
}
