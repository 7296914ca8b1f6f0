// mock-webhooks is a local stand-in for the chat and paging providers.
// It accepts webhook posts and echoes them to stdout so dispatch can be
// exercised end to end without external accounts.
package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/chat", dump("chat"))
	mux.HandleFunc("/paging", dump("paging"))

	addr := ":9095"
	log.Printf("mock webhooks listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func dump(channel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		var pretty map[string]any
		if err := json.Unmarshal(body, &pretty); err != nil {
			log.Printf("[%s] non-JSON payload: %s", channel, body)
		} else {
			formatted, _ := json.MarshalIndent(pretty, "", "  ")
			log.Printf("[%s] %s", channel, formatted)
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
