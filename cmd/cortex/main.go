// Command cortex is a terminal chat client for the Cortex business
// assistant.
//
// Usage:
//
//	CORTEX_TENANT_ID=t-123 cortex -gateway https://cortex.example.com [flags]
//
// Flags:
//
//	-gateway string        Gateway base URL (or CORTEX_GATEWAY_URL)
//	-tenant string         Tenant ID (or CORTEX_TENANT_ID)
//	-business-type string  Business type sent with every query (default "cafe")
//	-tone string           Response tone (default "professional")
//	-record string         Record ID to pin the conversation to
//	-transcript string     Path to a transcript file to resume and save
//	-list                  List saved transcripts and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cortexhub/cortex"
	bt "github.com/cortexhub/cortex/bubbletea"
	"github.com/cortexhub/cortex/gateway"
	cortexjson "github.com/cortexhub/cortex/json"
	"github.com/cortexhub/cortex/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cortex: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		gatewayURL     = flag.String("gateway", os.Getenv("CORTEX_GATEWAY_URL"), "Gateway base URL (or CORTEX_GATEWAY_URL)")
		tenantFlag     = flag.String("tenant", "", "Tenant ID (or CORTEX_TENANT_ID)")
		businessType   = flag.String("business-type", "cafe", "Business type sent with every query")
		tone           = flag.String("tone", "professional", "Response tone")
		recordID       = flag.String("record", "", "Record ID to pin the conversation to")
		transcriptPath = flag.String("transcript", "", "Path to a transcript file to resume and save")
		list           = flag.Bool("list", false, "List saved transcripts and exit")
	)
	flag.Parse()

	if *list {
		return listTranscripts()
	}

	if *gatewayURL == "" {
		return fmt.Errorf("gateway URL required: set -gateway or CORTEX_GATEWAY_URL")
	}

	// Tenant resolution is deferred to send time so a tenant switch via
	// the environment takes effect without restarting. The flag is the
	// fallback when the env var is unset.
	identity := func() string {
		if env := os.Getenv("CORTEX_TENANT_ID"); env != "" {
			return env
		}
		return *tenantFlag
	}
	if identity() == "" {
		return fmt.Errorf("tenant ID required: set -tenant or CORTEX_TENANT_ID")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	transcript, err := loadOrCreateTranscript(*transcriptPath, identity(), *businessType)
	if err != nil {
		return err
	}

	notify, updates := bt.UpdateChannel()
	sess := session.New(gateway.New(*gatewayURL), identity,
		session.WithBusinessType(*businessType),
		session.WithTone(*tone),
		session.WithRecordID(*recordID),
		session.WithNotify(notify),
	)
	sess.Restore(transcript.Messages)

	tuiModel := bt.New(sess, updates, cortex.DefaultTheme())
	if err := bt.Run(ctx, tuiModel); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	sess.StopStream()

	return saveTranscript(*transcriptPath, transcript, sess.Messages())
}

func loadOrCreateTranscript(path, tenantID, businessType string) (cortex.Transcript, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			tr, err := cortexjson.Load(path)
			if err != nil {
				return cortex.Transcript{}, fmt.Errorf("load transcript: %w", err)
			}
			return tr, nil
		}
	}
	now := time.Now()
	return cortex.Transcript{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		BusinessType: businessType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func saveTranscript(path string, tr cortex.Transcript, msgs []cortex.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	tr.Messages = msgs
	tr.UpdatedAt = time.Now()

	announce := false
	if path == "" {
		path = filepath.Join(transcriptDir(), tr.ID+".json")
		announce = true
	}
	if err := cortexjson.Save(path, tr); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	if announce {
		fmt.Fprintf(os.Stderr, "Transcript saved to %s\n", path)
	}
	return nil
}

func listTranscripts() error {
	dir := transcriptDir()
	paths, err := cortexjson.List(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("No saved transcripts.")
		return nil
	}
	for _, p := range paths {
		fmt.Println(filepath.Join(dir, p))
	}
	return nil
}

func transcriptDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cortex", "transcripts")
}
