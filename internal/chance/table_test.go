package chance

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestPickEmpty(t *testing.T) {
	tbl := New[string]()
	_, err := tbl.Pick(rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Pick() on empty table error = %v, expected ErrEmpty", err)
	}
}

func TestAddRejectsNonPositive(t *testing.T) {
	tbl := New[int]()
	if err := tbl.Add(1, 0); err == nil {
		t.Error("Add() with zero weight should fail")
	}
	if err := tbl.Add(1, -2); err == nil {
		t.Error("Add() with negative weight should fail")
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", tbl.Len())
	}
}

func TestPickSingle(t *testing.T) {
	tbl := New[string]()
	_ = tbl.Add("only", 0.5)
	rng := rand.New(rand.NewSource(7))
	for range 100 {
		got, err := tbl.Pick(rng)
		if err != nil || got != "only" {
			t.Fatalf("Pick() = %q, %v, expected only", got, err)
		}
	}
}

func TestPickFrequencies(t *testing.T) {
	tbl := New[string]()
	_ = tbl.Add("A", 1)
	_ = tbl.Add("B", 3)

	const draws = 40000
	rng := rand.New(rand.NewSource(42))
	counts := map[string]float64{}
	for range draws {
		got, err := tbl.Pick(rng)
		if err != nil {
			t.Fatalf("Pick() error = %v", err)
		}
		counts[got]++
	}

	fracB := counts["B"] / draws
	if fracB < 0.73 || fracB > 0.77 {
		t.Errorf("B picked %.3f of the time, expected about 0.75", fracB)
	}

	// Goodness of fit against weight/total with one degree of freedom.
	observed := []float64{counts["A"], counts["B"]}
	expected := []float64{draws * 0.25, draws * 0.75}
	chi := stat.ChiSquare(observed, expected)
	critical := distuv.ChiSquared{K: 1}.Quantile(0.999)
	if chi > critical {
		t.Errorf("chi-square = %.2f exceeds critical value %.2f", chi, critical)
	}
}

func TestPickDeterministic(t *testing.T) {
	tbl := New[int]()
	for i := 1; i <= 5; i++ {
		_ = tbl.Add(i, float64(i))
	}

	run := func() []int {
		rng := rand.New(rand.NewSource(99))
		out := make([]int, 50)
		for i := range out {
			out[i], _ = tbl.Pick(rng)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d differs: %d vs %d", i, a[i], b[i])
		}
	}
	if tbl.Total() != 15 {
		t.Errorf("Total() = %f, expected 15", tbl.Total())
	}
}
