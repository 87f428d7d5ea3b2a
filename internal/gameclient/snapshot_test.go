package gameclient

import "testing"

func mkSnapshot(t uint64) snapshot {
	return snapshot{ClientTimeMS: t}
}

func TestAdjacentSnapshotsFindsBracket(t *testing.T) {
	snaps := []snapshot{mkSnapshot(100), mkSnapshot(150), mkSnapshot(200)}

	from, to, ok := adjacentSnapshots(snaps, 120)
	if !ok || from.ClientTimeMS != 100 || to.ClientTimeMS != 150 {
		t.Fatalf("from=%+v to=%+v ok=%v", from, to, ok)
	}
}

func TestAdjacentSnapshotsNoUpperBoundIsNotOK(t *testing.T) {
	snaps := []snapshot{mkSnapshot(100), mkSnapshot(150)}

	_, _, ok := adjacentSnapshots(snaps, 200)
	if ok {
		t.Fatal("expected no bracket when renderTime is past every snapshot")
	}
}

func TestPruneSnapshotsKeepsFloorAndNewer(t *testing.T) {
	snaps := []snapshot{mkSnapshot(50), mkSnapshot(100), mkSnapshot(150), mkSnapshot(200)}

	got := pruneSnapshots(snaps, 120)
	if len(got) != 3 || got[0].ClientTimeMS != 100 {
		t.Fatalf("pruned = %+v, want floor 100 plus everything after", got)
	}
}

func TestPruneSnapshotsKeepsEverythingWhenRenderTimeBeforeAll(t *testing.T) {
	snaps := []snapshot{mkSnapshot(100), mkSnapshot(150)}

	got := pruneSnapshots(snaps, 0)
	if len(got) != 2 {
		t.Fatalf("pruned = %+v, want both kept", got)
	}
}
