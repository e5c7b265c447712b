package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"concierge/internal/app"
	"concierge/internal/domain"
)

func newEngine(t *testing.T, llm *fakeCompleter) (*app.Engine, *app.DirectoryService) {
	t.Helper()
	dir := app.NewDirectoryService(newFakeRepo(), &fakeCache{}, time.Minute)
	return app.NewEngine(dir, app.KeywordMatcher{}, app.NewFallbackResponder(llm, 100*time.Millisecond)), dir
}

func TestResolve_StructuredHitSkipsProvider(t *testing.T) {
	llm := &fakeCompleter{out: "should not be used"}
	e, dir := newEngine(t, llm)
	ctx := context.Background()

	if err := dir.Register(ctx, domain.Property{
		Phone:  "+15551230000",
		Values: map[domain.FieldKey]string{domain.FieldCheckIn: "3:00 PM"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	rep := e.Resolve(ctx, "+15551230000", "what time is check in?")
	if rep.Text != "3:00 PM" || rep.Source != app.SourceStructured || rep.Field != domain.FieldCheckIn {
		t.Fatalf("unexpected reply: %+v", rep)
	}
	if llm.Calls() != 0 {
		t.Fatalf("provider called %d times", llm.Calls())
	}
}

func TestResolve_EveryLabelAnswersFromRecord(t *testing.T) {
	llm := &fakeCompleter{out: "nope"}
	e, dir := newEngine(t, llm)
	ctx := context.Background()
	p := sampleProperty("+15551230000")
	if err := dir.Register(ctx, p); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, f := range domain.Fields {
		rep := e.Resolve(ctx, p.Phone, "Hey, "+f.Key.Label()+"?")
		if rep.Text != p.Value(f.Key) || rep.Field != f.Key {
			t.Fatalf("%s: unexpected reply %+v", f.Key, rep)
		}
	}
	if llm.Calls() != 0 {
		t.Fatalf("provider called %d times", llm.Calls())
	}
}

func TestResolve_MixedCaseMatchesWifi(t *testing.T) {
	e, dir := newEngine(t, &fakeCompleter{out: "x"})
	ctx := context.Background()
	p := sampleProperty("+15551230000")
	_ = dir.Register(ctx, p)

	rep := e.Resolve(ctx, p.Phone, "WIFI PASSWORD PLEASE")
	if rep.Field != domain.FieldWifi || rep.Text != p.Value(domain.FieldWifi) {
		t.Fatalf("unexpected reply: %+v", rep)
	}
}

func TestResolve_UnregisteredUsesFallback(t *testing.T) {
	llm := &fakeCompleter{out: "  Yes, there is a public garage on Main St.\n"}
	e, _ := newEngine(t, llm)

	rep := e.Resolve(context.Background(), "+15559999999", "is there parking nearby?")
	if rep.Text != "Yes, there is a public garage on Main St." || rep.Source != app.SourceFallback {
		t.Fatalf("unexpected reply: %+v", rep)
	}
	if llm.Calls() != 1 || llm.user != "is there parking nearby?" {
		t.Fatalf("provider not invoked with the query: calls=%d user=%q", llm.Calls(), llm.user)
	}
}

func TestResolve_UnregisteredNeverStructured(t *testing.T) {
	llm := &fakeCompleter{out: "generated"}
	e, _ := newEngine(t, llm)

	for _, q := range []string{"wifi", "check in", "checkout", "recommendations", ""} {
		rep := e.Resolve(context.Background(), "+15559999999", q)
		if rep.Source != app.SourceFallback {
			t.Fatalf("%q: expected fallback, got %+v", q, rep)
		}
	}
}

func TestResolve_RegisteredMissFallsBack(t *testing.T) {
	llm := &fakeCompleter{out: "The beach is 5 minutes away."}
	e, dir := newEngine(t, llm)
	ctx := context.Background()
	_ = dir.Register(ctx, sampleProperty("+15551230000"))

	rep := e.Resolve(ctx, "+15551230000", "how far is the beach?")
	if rep.Source != app.SourceFallback || llm.Calls() != 1 {
		t.Fatalf("unexpected reply: %+v (calls=%d)", rep, llm.Calls())
	}
}

func TestResolve_ProviderTimeoutReturnsApology(t *testing.T) {
	llm := &fakeCompleter{out: "too late", delay: 2 * time.Second}
	e, _ := newEngine(t, llm)

	start := time.Now()
	rep := e.Resolve(context.Background(), "+15559999999", "is there parking nearby?")
	if rep.Text != app.ApologyReply || rep.Source != app.SourceApology {
		t.Fatalf("unexpected reply: %+v", rep)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("fallback was not bounded by its timeout")
	}
}

func TestResolve_ProviderErrorReturnsApology(t *testing.T) {
	for _, llm := range []*fakeCompleter{
		{err: errors.New("503 service unavailable")},
		{out: ""},
	} {
		e, _ := newEngine(t, llm)
		rep := e.Resolve(context.Background(), "", "")
		if rep.Text == "" || rep.Text != app.ApologyReply {
			t.Fatalf("unexpected reply: %+v", rep)
		}
	}
}

func TestResolve_StorageErrorStillReplies(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("db down")
	llm := &fakeCompleter{out: "generated"}
	e := app.NewEngine(app.NewDirectoryService(repo, nil, time.Minute), nil, app.NewFallbackResponder(llm, time.Second))

	rep := e.Resolve(context.Background(), "+15551230000", "wifi")
	if rep.Source != app.SourceFallback || rep.Text != "generated" {
		t.Fatalf("unexpected reply: %+v", rep)
	}
}

func TestResolve_Concurrent(t *testing.T) {
	llm := &fakeCompleter{out: "generated"}
	e, dir := newEngine(t, llm)
	ctx := context.Background()
	_ = dir.Register(ctx, sampleProperty("+15551230000"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				if rep := e.Resolve(ctx, "+15551230000", "checkout?"); rep.Text != "11:00 AM" {
					t.Errorf("unexpected reply: %+v", rep)
				}
				return
			}
			if rep := e.Resolve(ctx, "+15559999999", "hi"); rep.Text != "generated" {
				t.Errorf("unexpected reply: %+v", rep)
			}
		}(i)
	}
	wg.Wait()
}
