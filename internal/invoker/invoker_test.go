package invoker

import (
	"context"
	"errors"
	"testing"
)

func TestScripted_PopsInOrder(t *testing.T) {
	s := NewScripted()
	s.Script("a", Outcome{Text: "first", OutputTokens: 3}, Outcome{Text: "second"})

	ctx := context.Background()
	r1, err := s.Invoke(ctx, Request{Backend: "a"})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if r1.Text != "first" || r1.OutputTokens != 3 {
		t.Fatalf("unexpected first result: %+v", r1)
	}
	r2, err := s.Invoke(ctx, Request{Backend: "a"})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if r2.OutputTokens != 1 {
		t.Fatalf("expected estimated token count 1, got %d", r2.OutputTokens)
	}
	if _, err := s.Invoke(ctx, Request{Backend: "a"}); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend after queue drained, got %v", err)
	}
	if n := len(s.Calls()); n != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", n)
	}
}

func TestScripted_Failures(t *testing.T) {
	s := NewScripted()
	s.Script("a", Outcome{Err: "rate limited"}, Outcome{Text: "   "})

	if _, err := s.Invoke(context.Background(), Request{Backend: "a"}); err == nil {
		t.Fatal("expected scripted error")
	}
	if _, err := s.Invoke(context.Background(), Request{Backend: "a"}); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestScripted_CanceledContext(t *testing.T) {
	s := NewScripted()
	s.Script("a", Outcome{Text: "never"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Invoke(ctx, Request{Backend: "a"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFunc(t *testing.T) {
	var f Invoker = Func(func(_ context.Context, req Request) (Result, error) {
		return Result{Text: req.UserText, OutputTokens: req.MaxOutputTokens}, nil
	})
	res, err := f.Invoke(context.Background(), Request{UserText: "echo", MaxOutputTokens: 7})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "echo" || res.OutputTokens != 7 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
