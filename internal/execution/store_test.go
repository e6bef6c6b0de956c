package execution

import (
	"path/filepath"
	"testing"
)

func TestStoreSaveGetList(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "executions.db"), filepath.Join(dir, "executions.lock"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	record := NewRecord("send 50 usdc 0x00000000000000000000000000000000000000bb", "SEND")
	record.Phase = PhaseExecuting
	record.Token = "USDC"
	record.AmountBase = "50000000"
	record.TxHash = "0x01"
	if err := store.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(record.ExecutionID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ExecutionID != record.ExecutionID {
		t.Fatalf("unexpected execution id: %s", got.ExecutionID)
	}
	if got.Operation != "SEND" || got.AmountBase != "50000000" {
		t.Fatalf("payload round-trip lost fields: %+v", got)
	}

	got.Phase = PhaseDone
	got.Succeeded = true
	if err := store.Save(got); err != nil {
		t.Fatalf("Save update failed: %v", err)
	}
	done, err := store.List(string(PhaseDone), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(done) != 1 {
		t.Fatalf("expected one done execution, got %d", len(done))
	}
	executing, err := store.List(string(PhaseExecuting), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(executing) != 0 {
		t.Fatalf("update must replace the previous phase, got %d executing", len(executing))
	}
}

func TestStoreGetMissingExecution(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "executions.db"), filepath.Join(dir, "executions.lock"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.Get("missing"); err == nil {
		t.Fatal("expected missing execution error")
	}
}
