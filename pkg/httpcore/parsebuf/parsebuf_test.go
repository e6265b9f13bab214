package parsebuf

import "testing"

func TestAssignResetsCursors(t *testing.T) {
	b := New()
	b.Append([]byte("abc"))
	b.Next()
	b.Commit()

	b.Assign([]byte("xyz"))
	if b.Head() != 0 {
		t.Fatalf("head = %d, want 0", b.Head())
	}
	if b.rollback != 0 {
		t.Fatalf("rollback not reset")
	}
	if string(b.BytesAfterCursor()) != "xyz" {
		t.Fatalf("got %q", b.BytesAfterCursor())
	}
}

func TestNextAdvancesOnlyInRange(t *testing.T) {
	b := New()
	b.Append([]byte("ab"))

	c, ok := b.Next()
	if !ok || c != 'a' {
		t.Fatalf("got %q, %v", c, ok)
	}
	c, ok = b.Next()
	if !ok || c != 'b' {
		t.Fatalf("got %q, %v", c, ok)
	}
	if _, ok := b.Next(); ok {
		t.Fatalf("expected exhausted")
	}
	if b.Head() != 2 {
		t.Fatalf("head moved past end: %d", b.Head())
	}
}

func TestRollbackRestoresLastCommit(t *testing.T) {
	b := New()
	b.Append([]byte("GET"))
	b.Next()
	b.Next()
	b.Commit() // committed after "GE"
	b.Next()   // speculative "T"
	b.Rollback()

	if b.Head() != 2 {
		t.Fatalf("head = %d, want 2", b.Head())
	}
}

func TestCommitAdvancesRollback(t *testing.T) {
	b := New()
	b.Append([]byte("hello"))
	b.Set(3)
	b.Commit()
	b.Rollback()
	if b.Head() != 3 {
		t.Fatalf("head = %d, want 3", b.Head())
	}
}

func TestSetAndIncrementRejectOutOfRange(t *testing.T) {
	b := New()
	b.Append([]byte("hi"))

	if b.Set(-1) {
		t.Fatalf("Set(-1) should fail")
	}
	if b.Set(3) {
		t.Fatalf("Set(3) should fail, len=2")
	}
	if !b.Set(2) {
		t.Fatalf("Set(2) should succeed at end-of-buffer")
	}
	if b.Increment(1) {
		t.Fatalf("Increment past end should fail")
	}
	if !b.Increment(-2) {
		t.Fatalf("Increment back to 0 should succeed")
	}
	if b.Head() != 0 {
		t.Fatalf("head = %d, want 0", b.Head())
	}
}

func TestInvariantHoldsAcrossOperations(t *testing.T) {
	b := New()
	ops := []func(){
		func() { b.Append([]byte("partial-request-bytes ")) },
		func() { b.Next() },
		func() { b.Commit() },
		func() { b.Next() },
		func() { b.Rollback() },
		func() { b.Set(1) },
		func() { b.Increment(1) },
	}
	for i, op := range ops {
		op()
		if b.rollback < 0 || b.rollback > b.head || b.head > len(b.data) {
			t.Fatalf("invariant violated after op %d: rollback=%d head=%d len=%d",
				i, b.rollback, b.head, len(b.data))
		}
	}
}

func TestAppendInterleavedWithReadsMatchesOneShot(t *testing.T) {
	chunks := [][]byte{[]byte("GET "), []byte("/pi"), []byte("ng HT"), []byte("TP/1.1\r\n")}

	incremental := New()
	var got []byte
	for _, c := range chunks {
		incremental.Append(c)
		for {
			b, ok := incremental.Next()
			if !ok {
				incremental.Rollback()
				break
			}
			got = append(got, b)
			incremental.Commit()
		}
	}

	oneShot := New()
	oneShot.Assign([]byte("GET /ping HTTP/1.1\r\n"))
	var want []byte
	for {
		b, ok := oneShot.Next()
		if !ok {
			break
		}
		want = append(want, b)
	}

	if string(got) != string(want) {
		t.Fatalf("incremental = %q, want %q", got, want)
	}
}

func TestRewindCompactsBeforeRollback(t *testing.T) {
	b := New()
	b.Append([]byte("GET / HTTP/1.1\r\n"))
	b.Set(16)
	b.Commit()
	b.Append([]byte("more"))
	b.Rewind()

	if b.Head() != 0 {
		t.Fatalf("head after rewind = %d, want 0", b.Head())
	}
	if string(b.BytesAfterCursor()) != "more" {
		t.Fatalf("got %q", b.BytesAfterCursor())
	}
}
