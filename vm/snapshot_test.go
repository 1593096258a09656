package vm

import (
	"encoding/json"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestDumpEngine_Snapshot_AfterArithmetic(t *testing.T) {
	raw := []byte{byte(PUSH3), byte(PUSH4), byte(MUL)}
	e := NewEngine(DefaultLimits())
	ctx, err := e.LoadScript(mustScript(t, raw), -1)
	if err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}

	// Step twice so both operands are on the evaluation stack but MUL
	// hasn't run yet; this is the interesting mid-execution frame to pin.
	e.Step()
	e.Step()

	out, err := json.Marshal(DumpContext(ctx))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	snaps.MatchSnapshot(t, "midExecutionFrame", string(out))
}

func TestDumpEngine_Snapshot_AfterHalt(t *testing.T) {
	raw := []byte{byte(PUSH3), byte(PUSH4), byte(MUL), byte(RET)}
	e := NewEngine(DefaultLimits())
	if _, err := e.LoadScript(mustScript(t, raw), -1); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	if state := e.Execute(); state != HALT {
		t.Fatalf("Execute() = %v, want HALT (fault: %v)", state, e.LastError)
	}

	out, err := json.Marshal(DumpEngine(e))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	snaps.MatchSnapshot(t, "haltedEngine", string(out))
}
