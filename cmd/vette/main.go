package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/linyows/vette"
)

var (
	version  = "dev"
	commit   = ""
	date     = ""
	builtBy  = ""
	list     = flag.String("list", "", "path to list config json")
	file     = flag.String("file", "-", "message file to inject, - for stdin")
	envelope = flag.String("envelope-sender", "", "transport-level sender address")
	storage  = flag.String("storage", "", "specify extended storage from: mysql, sqlite")
	smtpAddr = flag.String("smtp", "127.0.0.1:25", "smtp address for notifications")
	hooks    = flag.String("hooks", "", "comma separated audit hooks from: file, slack")
	approved = flag.Bool("approved", false, "mark the message as already approved")
	verFlag  = flag.Bool("version", false, "show build version")
)

func init() {
	flag.Parse()
}

func main() {
	if *verFlag {
		fmt.Fprintf(os.Stderr, buildVersion(version, commit, date, builtBy)+"\n")
		return
	}

	if *list == "" {
		fmt.Fprintln(os.Stderr, "missing -list")
		os.Exit(2)
	}

	l, err := vette.LoadList(*list)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	msg, err := readMessage(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	msg.EnvelopeSender = *envelope

	h, err := buildHolder()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	meta := &vette.Metadata{Approved: *approved}
	outcome, err := h.Process(l, msg, meta)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if outcome.Held {
		fmt.Printf("held: %s (token %s)\n", outcome.Reason, outcome.Token)
		return
	}
	fmt.Println("ok")
}

func readMessage(path string) (*vette.Message, error) {
	if path == "-" {
		return vette.ReadMessage(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return vette.ReadMessage(f)
}

func buildHolder() (*vette.Holder, error) {
	h := &vette.Holder{
		Rules:     vette.DefaultRuleset(),
		Notifier:  &vette.Notifier{Mailer: &vette.SMTPMailer{Addr: *smtpAddr}},
		Responder: vette.NewDailyResponder(),
	}

	switch *storage {
	case "mysql":
		store := &vette.StoreMysql{}
		if err := store.Init(); err != nil {
			return nil, err
		}
		h.Pendings = store
		h.Registrar = store
	case "sqlite":
		store := &vette.StoreSqlite{}
		if err := store.Init(); err != nil {
			return nil, err
		}
		h.Pendings = store
		h.Registrar = store
	default:
		store := vette.NewMemoryStore()
		h.Pendings = store
		h.Registrar = store
	}

	for _, name := range splitComma(*hooks) {
		switch name {
		case "file":
			h.Hooks = append(h.Hooks, &vette.HookFile{})
		case "slack":
			h.Hooks = append(h.Hooks, &vette.HookSlack{})
		}
	}

	plugs, err := vette.LoadPlugins()
	if err != nil {
		return nil, err
	}
	for _, p := range plugs {
		h.Hooks = append(h.Hooks, p)
	}

	for _, hook := range h.Hooks {
		hook.AfterInit()
	}

	return h, nil
}

func splitComma(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func buildVersion(version, commit, date, builtBy string) string {
	var result = version
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	if builtBy != "" {
		result = fmt.Sprintf("%s\nbuilt by: %s", result, builtBy)
	}
	return result
}
