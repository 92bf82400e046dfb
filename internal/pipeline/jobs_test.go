package pipeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("doc.json", "linear", []byte("{}"))
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("expected uuid job id, got %q: %v", job.ID, err)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if job.Structure != "linear" || job.Filename != "doc.json" {
		t.Errorf("unexpected job fields: %+v", job.Snapshot())
	}
	if other := NewJob("doc.json", "", nil); other.ID == job.ID {
		t.Error("expected distinct job ids")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("doc.json", "", nil)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusDecoding, "decoding"},
		{StatusBuilding, "building tree"},
		{StatusRendering, "rendering json"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_WaitReleasedByFinalStatus(t *testing.T) {
	job := NewJob("doc.json", "", nil)
	released := make(chan struct{})
	go func() {
		job.Wait()
		close(released)
	}()

	job.SetStatus(StatusBuilding, "building")
	select {
	case <-released:
		t.Fatal("Wait returned before a final status")
	case <-time.After(20 * time.Millisecond):
	}

	job.SetStatus(StatusFailed, "building")
	// A second final status must not close the channel twice.
	job.SetStatus(StatusFailed, "building")
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after the job failed")
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusCompleted, StatusFailed, StatusDupSkipped} {
		if !s.Done() {
			t.Errorf("expected %q to be final", s)
		}
	}
	for _, s := range []JobStatus{StatusQueued, StatusDecoding, StatusBuilding, StatusRendering} {
		if s.Done() {
			t.Errorf("expected %q not to be final", s)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("row 3: parse json")
	job.AddError("line 7 does not fit")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "row 3: parse json" {
		t.Errorf("expected first error %q, got %q", "row 3: parse json", snap.Progress.Errors[0])
	}
}

func TestJob_Progress(t *testing.T) {
	job := &Job{ID: "progress-test", UpdatedAt: time.Now()}
	job.SetInput(12, 2)
	job.SetNodes(9)
	job.SetOutputPath("/tmp/doc.json")

	snap := job.Snapshot()
	if snap.Progress.Lines != 12 || snap.Progress.Tables != 2 {
		t.Errorf("expected 12 lines 2 tables, got %d %d", snap.Progress.Lines, snap.Progress.Tables)
	}
	if snap.Progress.Nodes != 9 {
		t.Errorf("expected 9 nodes, got %d", snap.Progress.Nodes)
	}
	if snap.OutputPath != "/tmp/doc.json" {
		t.Errorf("expected output path, got %q", snap.OutputPath)
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	if got := job.FileData(); string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
	job.releaseData()
	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_List(t *testing.T) {
	store := NewJobStore(time.Hour)
	now := time.Now()
	store.Put(&Job{ID: "b", Filename: "b.json", CreatedAt: now.Add(time.Second)})
	store.Put(&Job{ID: "a", Filename: "a.json", CreatedAt: now})
	store.Put(&Job{ID: "c", Filename: "c.json", CreatedAt: now})

	var got []string
	for _, j := range store.List() {
		got = append(got, j.ID)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "c" || got[2] != "b" {
		t.Errorf("expected [a c b], got %v", got)
	}
}

func TestJobStore_Claim(t *testing.T) {
	store := NewJobStore(time.Hour)
	if owner, ok := store.Claim("h1", "job-1"); !ok || owner != "job-1" {
		t.Fatalf("expected first claim to win, got %q %v", owner, ok)
	}
	if owner, ok := store.Claim("h1", "job-2"); ok || owner != "job-1" {
		t.Errorf("expected job-1 to keep the claim, got %q %v", owner, ok)
	}
	if _, ok := store.Claim("h1", "job-1"); !ok {
		t.Error("expected reclaim by the owner to succeed")
	}
	if _, ok := store.Claim("h2", "job-2"); !ok {
		t.Error("expected a different hash to be claimable")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)
	store.Claim("old-hash", "old")

	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
	if _, ok := store.Claim("old-hash", "new"); !ok {
		t.Error("expected the expired job's hash claim to be released")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Cleanup()
}
