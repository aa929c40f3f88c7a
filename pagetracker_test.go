package gsraster

import "testing"

func TestPageTrackerFirstTargetUseIsSyncpointByFingerprint(t *testing.T) {
	pt := NewPageTracker(16)
	if sync := pt.UseTarget([]uint32{1, 2}, 0xAAAA); !sync {
		t.Fatalf("first UseTarget call should be a syncpoint (no prior fingerprint)")
	}
}

func TestPageTrackerSameFingerprintNoAliasNoSync(t *testing.T) {
	pt := NewPageTracker(16)
	pt.UseTarget([]uint32{1}, 0xAAAA)
	pt.ReleaseTarget([]uint32{1})
	if sync := pt.UseTarget([]uint32{2}, 0xAAAA); sync {
		t.Fatalf("disjoint pages with an unchanged fingerprint should not force a syncpoint")
	}
}

func TestPageTrackerAliasingTargetForcesSyncpoint(t *testing.T) {
	pt := NewPageTracker(16)
	pt.UseTarget([]uint32{5}, 0x1)
	if sync := pt.UseTarget([]uint32{5}, 0x1); !sync {
		t.Fatalf("re-using an in-flight target page should force a syncpoint")
	}
}

func TestPageTrackerSourceAliasingTargetForcesSyncpoint(t *testing.T) {
	pt := NewPageTracker(16)
	pt.UseTarget([]uint32{5}, 0x1)
	if sync := pt.UseSource([]uint32{5}); !sync {
		t.Fatalf("reading a page that is an in-flight render target should force a syncpoint")
	}
}

func TestPageTrackerReleaseAllowsReuse(t *testing.T) {
	pt := NewPageTracker(16)
	pt.UseTarget([]uint32{5}, 0x1)
	pt.ReleaseTarget([]uint32{5})
	if pt.AliasesTarget([]uint32{5}) {
		t.Fatalf("page 5 should no longer alias a target after release")
	}
}

func TestPageTrackerAliasesTargetDoesNotMutate(t *testing.T) {
	pt := NewPageTracker(16)
	pt.UseTarget([]uint32{3}, 0x1)
	before := pt.AliasesTarget([]uint32{3})
	after := pt.AliasesTarget([]uint32{3})
	if before != after || !after {
		t.Fatalf("AliasesTarget must be idempotent and read-only")
	}
}
