package gsraster

import "testing"

func TestScanlineOwnershipPartitionsRows(t *testing.T) {
	const threads = 4
	owners := make([]ScanlineOwnership, threads)
	for i := range owners {
		owners[i] = NewScanlineOwnership(i, threads)
	}

	for y := 0; y < MaxScanlines; y++ {
		owned := 0
		for i := range owners {
			if owners[i].OwnsRow(y) {
				owned++
			}
		}
		if owned != 1 {
			t.Fatalf("row %d owned by %d workers, want exactly 1", y, owned)
		}
	}
}

func TestScanlineOwnershipBandStriping(t *testing.T) {
	o := NewScanlineOwnership(1, 4)
	if o.OwnsRow(0) {
		t.Fatalf("band 0 should belong to worker 0, not worker 1")
	}
	if !o.OwnsRow(BandHeight) {
		t.Fatalf("band 1 (rows %d..%d) should belong to worker 1", BandHeight, 2*BandHeight)
	}
	if !o.OwnsRow(BandHeight + 3) {
		t.Fatalf("every row within an owned band should be owned")
	}
}

func TestScanlineOwnershipOwnsBand(t *testing.T) {
	o := NewScanlineOwnership(0, 2)
	if !o.OwnsBand(0, BandHeight) {
		t.Fatalf("worker 0 should own band 0")
	}
	if o.OwnsBand(BandHeight, 2*BandHeight) {
		t.Fatalf("worker 0 should not own band 1")
	}
	if !o.OwnsBand(BandHeight-1, BandHeight+1) {
		t.Fatalf("a range straddling an owned and unowned band should report owned")
	}
}

func TestScanlineOwnershipNextOwnedRow(t *testing.T) {
	o := NewScanlineOwnership(1, 4)
	if got := o.NextOwnedRow(0); got != BandHeight {
		t.Fatalf("NextOwnedRow(0) = %d, want %d", got, BandHeight)
	}
	if got := o.NextOwnedRow(BandHeight); got != BandHeight {
		t.Fatalf("NextOwnedRow already on an owned row should return that row")
	}
}

func TestScanlineOwnershipSkipToNextBand(t *testing.T) {
	o := NewScanlineOwnership(0, 4)
	next := o.SkipToNextBand(BandHeight)
	if next != 4*BandHeight {
		t.Fatalf("SkipToNextBand(%d) with 4 threads = %d, want %d", BandHeight, next, 4*BandHeight)
	}
}
