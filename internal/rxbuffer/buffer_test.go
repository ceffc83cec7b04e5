package rxbuffer

import "testing"

func TestAppendAndConsume(t *testing.T) {
	var b Buffer
	b.Append([]byte{1, 2, 3, 4, 5})
	if b.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", b.Len())
	}

	b.Consume(2)
	if b.Len() != 3 {
		t.Fatalf("Len() after Consume(2) = %d, want 3", b.Len())
	}
	if got := b.Bytes(); len(got) != 3 || got[0] != 3 {
		t.Fatalf("Bytes() after Consume(2) = %v, want [3 4 5]", got)
	}
}

func TestConsumeMoreThanAvailable(t *testing.T) {
	var b Buffer
	b.Append([]byte{1, 2})
	b.Consume(100)
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", b.Len())
	}
}

func TestConsumeZeroOrNegativeIsNoop(t *testing.T) {
	var b Buffer
	b.Append([]byte{1, 2, 3})
	b.Consume(0)
	b.Consume(-5)
	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
}

func TestAppendAfterConsumeKeepsTail(t *testing.T) {
	var b Buffer
	b.Append([]byte{1, 2, 3, 4})
	b.Consume(3)
	b.Append([]byte{5, 6})
	if got := b.Bytes(); string(got) != string([]byte{4, 5, 6}) {
		t.Fatalf("Bytes() = %v, want [4 5 6]", got)
	}
}

func TestClear(t *testing.T) {
	var b Buffer
	b.Append([]byte{1, 2, 3})
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", b.Len())
	}
}

func TestOverrun(t *testing.T) {
	var b Buffer
	b.Append(make([]byte, MaxLen-1))
	if b.Overrun() {
		t.Fatalf("Overrun() = true below MaxLen")
	}
	b.Append([]byte{0})
	if !b.Overrun() {
		t.Fatalf("Overrun() = false at MaxLen")
	}
}
