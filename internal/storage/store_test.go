package storage

import (
	"math"
	"testing"

	"github.com/okrogh/thglab/internal/dynamo"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		Z: []float64{0, 1e-7, 2e-7},
		States: []dynamo.State{
			{10000 + 0i, 0},
			{9000 + 100i, 20 - 5i},
			{8000 + 200i, 40 - 10i},
		},
		Metrics:        map[string]float64{"peak_conversion": 1.6e-5},
		InvariantDrift: 2.5e-7,
		StepsTaken:     412,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	meta := RunMetadata{DeltaBeta: 1e6, N1: 1.46, N3: 1.47, Length: 2e-7, Samples: 3}
	runID, err := store.Save(meta, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.DeltaBeta != 1e6 {
		t.Errorf("expected delta_beta 1e6, got %g", loaded.DeltaBeta)
	}
	if loaded.StepsTaken != 412 {
		t.Errorf("expected 412 steps, got %d", loaded.StepsTaken)
	}
	if loaded.Metrics["peak_conversion"] != 1.6e-5 {
		t.Errorf("metrics not round-tripped: %v", loaded.Metrics)
	}
}

func TestLoadStates(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	res := sampleResult()
	runID, err := store.Save(RunMetadata{DeltaBeta: 1e4}, res)
	if err != nil {
		t.Fatal(err)
	}

	states, zs, err := store.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 3 || len(zs) != 3 {
		t.Fatalf("expected 3 rows, got %d states, %d positions", len(states), len(zs))
	}

	for i := range states {
		if len(states[i]) != 2 {
			t.Fatalf("row %d: expected 2 components, got %d", i, len(states[i]))
		}
		for j := range states[i] {
			dRe := math.Abs(real(states[i][j]) - real(res.States[i][j]))
			dIm := math.Abs(imag(states[i][j]) - imag(res.States[i][j]))
			if dRe > 1e-3 || dIm > 1e-3 {
				t.Errorf("row %d component %d: got %v, want %v", i, j, states[i][j], res.States[i][j])
			}
		}
	}
}

func TestSaveUniqueIDsWithinOneSecond(t *testing.T) {
	store := New(t.TempDir())

	ids := make(map[string]bool)
	for i := 0; i < 5; i++ {
		id, err := store.Save(RunMetadata{DeltaBeta: float64(i)}, sampleResult())
		if err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
		if ids[id] {
			t.Fatalf("duplicate run id %q: a later save would overwrite it", id)
		}
		ids[id] = true
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 5 {
		t.Errorf("expected 5 stored runs, got %d", len(runs))
	}
}

func TestSaveAcrossStoresSameDir(t *testing.T) {
	dir := t.TempDir()

	// Two store handles over one directory (two processes, in effect)
	// must not hand out the same id.
	a := New(dir)
	b := New(dir)

	idA, err := a.Save(RunMetadata{DeltaBeta: 1e4}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	idB, err := b.Save(RunMetadata{DeltaBeta: 1e5}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	if idA == idB {
		t.Fatalf("both stores produced id %q", idA)
	}
}

func TestListEmpty(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on missing dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestListAfterSave(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Save(RunMetadata{DeltaBeta: 1e5}, sampleResult()); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].DeltaBeta != 1e5 {
		t.Errorf("expected delta_beta 1e5, got %g", runs[0].DeltaBeta)
	}
}
