package gsraster

import "testing"

func TestNewRasterizerDataRejectsMismatchedVertexCount(t *testing.T) {
	_, err := NewRasterizerData(make([]Vertex, 4), PrimTriangle, nil, nil)
	if err == nil {
		t.Fatalf("4 vertices is not a multiple of 3, expected an error")
	}
}

func TestNewRasterizerDataComputesBBox(t *testing.T) {
	verts := []Vertex{
		{P: Vec4{X: 2, Y: 3}},
		{P: Vec4{X: 10, Y: 1}},
		{P: Vec4{X: 5, Y: 8}},
	}
	rd, err := NewRasterizerData(verts, PrimTriangle, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := Rect{Left: 2, Top: 1, Right: 11, Bottom: 9}
	if rd.BBox != want {
		t.Fatalf("BBox = %+v, want %+v", rd.BBox, want)
	}
}

func TestRasterizerDataReleaseReturnsPagesAtZero(t *testing.T) {
	pt := NewPageTracker(16)
	pt.UseTarget([]uint32{7}, 1)

	rd, err := NewRasterizerData([]Vertex{{}}, PrimPoint, nil, pt)
	if err != nil {
		t.Fatal(err)
	}
	rd.FBPages = []uint32{7}
	rd.AddRef()

	rd.Release()
	if !pt.AliasesTarget([]uint32{7}) {
		t.Fatalf("page should still be held after releasing only one of two references")
	}

	rd.Release()
	if pt.AliasesTarget([]uint32{7}) {
		t.Fatalf("page should be released once the last reference drops")
	}
}

func TestRasterizerDataReleaseIsIdempotent(t *testing.T) {
	pt := NewPageTracker(16)
	pt.UseTarget([]uint32{2}, 1)

	rd, err := NewRasterizerData([]Vertex{{}}, PrimPoint, nil, pt)
	if err != nil {
		t.Fatal(err)
	}
	rd.FBPages = []uint32{2}

	rd.Release()
	rd.Release() // extra release must not double-return the page

	if pt.AliasesTarget([]uint32{2}) {
		t.Fatalf("page should be released exactly once")
	}
}
