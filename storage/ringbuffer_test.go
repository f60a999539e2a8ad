package storage

import (
	"sync"
	"testing"
)

func TestNewRingBuffer(t *testing.T) {
	rb := NewRingBuffer[int](60)
	if rb.Capacity() != 60 {
		t.Errorf("Expected capacity 60, got %d", rb.Capacity())
	}
	if rb.Size() != 0 {
		t.Errorf("Expected size 0, got %d", rb.Size())
	}
	if !rb.IsEmpty() {
		t.Error("Expected buffer to be empty")
	}

	rb2 := NewRingBuffer[int](0)
	if rb2.Capacity() != 1 {
		t.Errorf("Expected minimum capacity 1, got %d", rb2.Capacity())
	}
}

func TestAdd(t *testing.T) {
	rb := NewRingBuffer[int](5)
	rb.Add(1)
	if rb.Size() != 1 {
		t.Errorf("Expected size 1, got %d", rb.Size())
	}

	for i := 0; i < 4; i++ {
		rb.Add(i)
	}
	if rb.Size() != 5 {
		t.Errorf("Expected size 5, got %d", rb.Size())
	}
	if !rb.IsFull() {
		t.Error("Expected buffer to be full")
	}
}

func TestGetAllOrder(t *testing.T) {
	rb := NewRingBuffer[int](10)
	if got := rb.GetAll(); got != nil {
		t.Errorf("Expected nil for empty buffer, got %v", got)
	}

	for i := 1; i <= 5; i++ {
		rb.Add(i)
	}
	all := rb.GetAll()
	if len(all) != 5 {
		t.Fatalf("Expected 5 elements, got %d", len(all))
	}
	for i, want := range []int{1, 2, 3, 4, 5} {
		if all[i] != want {
			t.Errorf("Expected %d at index %d, got %d", want, i, all[i])
		}
	}
}

func TestOverflow(t *testing.T) {
	rb := NewRingBuffer[int](3)
	for i := 1; i <= 5; i++ {
		rb.Add(i * 10)
	}

	if rb.Size() != 3 {
		t.Errorf("Expected size 3, got %d", rb.Size())
	}
	all := rb.GetAll()
	for i, want := range []int{30, 40, 50} {
		if all[i] != want {
			t.Errorf("Expected %d at index %d, got %d", want, i, all[i])
		}
	}
}

func TestResize(t *testing.T) {
	rb := NewRingBuffer[int](5)
	for i := 1; i <= 5; i++ {
		rb.Add(i)
	}

	rb.Resize(2)
	all := rb.GetAll()
	if len(all) != 2 || all[0] != 4 || all[1] != 5 {
		t.Errorf("Expected [4 5] after shrink, got %v", all)
	}

	rb.Resize(4)
	rb.Add(6)
	rb.Add(7)
	rb.Add(8)
	all = rb.GetAll()
	if len(all) != 4 || all[0] != 5 || all[3] != 8 {
		t.Errorf("Expected [5 6 7 8] after grow, got %v", all)
	}
}

func TestClear(t *testing.T) {
	rb := NewRingBuffer[int](5)
	for i := 0; i < 3; i++ {
		rb.Add(i)
	}

	rb.Clear()
	if rb.Size() != 0 {
		t.Errorf("Expected size 0 after clear, got %d", rb.Size())
	}
	if !rb.IsEmpty() {
		t.Error("Expected buffer to be empty after clear")
	}

	rb.Add(42)
	if all := rb.GetAll(); len(all) != 1 || all[0] != 42 {
		t.Errorf("Expected [42] after clear and add, got %v", all)
	}
}

func TestConcurrentAccess(t *testing.T) {
	rb := NewRingBuffer[int](100)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rb.Add(id*100 + j)
			}
		}(i)
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = rb.GetAll()
				_ = rb.Size()
			}
		}()
	}

	wg.Wait()

	if rb.Size() != 100 {
		t.Errorf("Expected size 100, got %d", rb.Size())
	}
}

func BenchmarkAdd(b *testing.B) {
	rb := NewRingBuffer[int](3600)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rb.Add(i)
	}
}

func BenchmarkGetAll(b *testing.B) {
	rb := NewRingBuffer[int](3600)
	for i := 0; i < 3600; i++ {
		rb.Add(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rb.GetAll()
	}
}
