package main

import (
	"encoding/json"
	"io"

	"memorize/internal/config"
	"memorize/internal/stack"
	"memorize/internal/store"
)

// runDump writes every window's saved stacks to w as one JSON object.
func runDump(w io.Writer, cfg config.Config) error {
	cfg, err := config.Load(cfg, nil)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ids, err := st.Windows()
	if err != nil {
		return err
	}
	out := make(map[string][][]stack.Record, len(ids))
	for _, id := range ids {
		stacks, err := st.Load(id)
		if err != nil {
			return err
		}
		out[id] = stacks
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
