package render_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-barber/pkg/descriptor"
	"github.com/goliatone/go-barber/pkg/model"
	"github.com/goliatone/go-barber/pkg/registry"
	"github.com/goliatone/go-barber/pkg/render"
	"github.com/goliatone/go-barber/pkg/render/template/pongo"
)

type RecipientReceipt struct {
	Sender            string    `json:"sender"`
	Amount            string    `json:"amount"`
	CancelURL         string    `json:"cancelUrl"`
	DepositExpectedAt time.Time `json:"deposit_expected_at"`
}

type SenderReceipt struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type Receipt struct {
	Sender    string  `barber:"sender"`
	Amount    *string `barber:"amount"`
	CancelURL *string `barber:"cancelUrl"`
}

type Sms struct {
	Body string `barber:"body"`
}

var sandy50Receipt = RecipientReceipt{
	Sender:            "Sandy Winchester",
	Amount:            "$50",
	CancelURL:         "https://cash.app/cancel/123",
	DepositExpectedAt: time.Date(2019, 5, 21, 16, 2, 0, 0, time.UTC),
}

func newDescriptors(t *testing.T) *descriptor.Registry {
	t.Helper()

	reg, err := descriptor.NewRegistry()
	if err != nil {
		t.Fatalf("descriptor registry: %v", err)
	}
	if err := descriptor.Register[Receipt](reg); err != nil {
		t.Fatalf("register Receipt: %v", err)
	}
	if err := descriptor.Register[Sms](reg); err != nil {
		t.Fatalf("register Sms: %v", err)
	}
	return reg
}

func newResolver(t *testing.T, copies []model.DocumentCopy, opts ...render.Option) *render.Resolver {
	t.Helper()

	templates, err := registry.New(copies...)
	if err != nil {
		t.Fatalf("template registry: %v", err)
	}
	engine, err := pongo.New()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	opts = append([]render.Option{render.WithLogger(zaptest.NewLogger(t))}, opts...)
	resolver, err := render.NewResolver(templates, newDescriptors(t), engine, opts...)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	return resolver
}

func recipientReceiptCopy() model.DocumentCopy {
	return model.DocumentCopy{
		Source:  "RecipientReceipt",
		Targets: []model.TypeID{"Receipt"},
		Fields:  map[string]*string{"sender": model.Text("{{ sender }}")},
	}
}

func TestResolve_RecipientReceipt(t *testing.T) {
	resolver := newResolver(t, []model.DocumentCopy{recipientReceiptCopy()})

	renderer, err := resolver.Resolve("RecipientReceipt", "Receipt")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	wantFields := map[string]*string{
		"sender":    model.Text("{{ sender }}"),
		"amount":    nil,
		"cancelUrl": nil,
	}
	if diff := cmp.Diff(wantFields, renderer.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	out, err := renderer.Render(sandy50Receipt)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := Receipt{Sender: "Sandy Winchester"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_TemplateReferencesOtherFields(t *testing.T) {
	dc := recipientReceiptCopy()
	dc.Fields["amount"] = model.Text("{{ amount }} from {{ sender }}")
	dc.Fields["cancelUrl"] = model.Text("{{ cancelUrl }}?at={{ deposit_expected_at }}")
	resolver := newResolver(t, []model.DocumentCopy{dc})

	renderer, err := resolver.Resolve("RecipientReceipt", "Receipt")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	out, err := renderer.Render(sandy50Receipt)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := Receipt{
		Sender:    "Sandy Winchester",
		Amount:    model.Text("$50 from Sandy Winchester"),
		CancelURL: model.Text("https://cash.app/cancel/123?at=2019-05-21T16:02:00Z"),
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_LooseCopy(t *testing.T) {
	resolver := newResolver(t, []model.DocumentCopy{recipientReceiptCopy()})
	renderer, err := resolver.Resolve("RecipientReceipt", "Receipt")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	out, err := renderer.Render(model.Copy{
		Type:   "RecipientReceipt",
		Values: map[string]any{"sender": "Ada"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(Receipt{Sender: "Ada"}, out); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_UnboundCopyModel(t *testing.T) {
	resolver := newResolver(t, []model.DocumentCopy{recipientReceiptCopy()})

	renderer, err := resolver.Resolve("SenderReceipt", "Receipt")
	if renderer != nil {
		t.Fatalf("expected no renderer, got %+v", renderer)
	}
	if !errors.Is(err, render.ErrUnboundCopyModel) {
		t.Fatalf("expected ErrUnboundCopyModel, got %v", err)
	}
	var unbound *render.UnboundCopyModelError
	if !errors.As(err, &unbound) || unbound.CopyModel != "SenderReceipt" {
		t.Fatalf("expected UnboundCopyModelError for SenderReceipt, got %#v", err)
	}
}

func TestResolve_InvalidTarget(t *testing.T) {
	resolver := newResolver(t, []model.DocumentCopy{recipientReceiptCopy()})

	_, err := resolver.Resolve("RecipientReceipt", "Sms")
	if !errors.Is(err, render.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	var invalid *render.InvalidTargetError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTargetError, got %T", err)
	}
	if diff := cmp.Diff([]model.TypeID{"Receipt"}, invalid.Valid); diff != "" {
		t.Fatalf("valid targets mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "valid targets: Receipt") {
		t.Fatalf("error should list valid targets: %v", err)
	}
}

func TestResolve_NoAccessibleConstructor(t *testing.T) {
	resolver := newResolver(t, []model.DocumentCopy{{
		Source:  "RecipientReceipt",
		Targets: []model.TypeID{"Email"},
		Fields:  map[string]*string{"subject": model.Text("{{ sender }}")},
	}})

	_, err := resolver.Resolve("RecipientReceipt", "Email")
	if !errors.Is(err, descriptor.ErrNoAccessibleConstructor) {
		t.Fatalf("expected ErrNoAccessibleConstructor, got %v", err)
	}
}

func TestResolve_InvalidTemplate(t *testing.T) {
	dc := recipientReceiptCopy()
	dc.Fields["sender"] = model.Text("{{ sender ")
	resolver := newResolver(t, []model.DocumentCopy{dc})

	_, err := resolver.Resolve("RecipientReceipt", "Receipt")
	if !errors.Is(err, render.ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
	var invalid *render.InvalidTemplateError
	if !errors.As(err, &invalid) || invalid.Field != "sender" {
		t.Fatalf("expected InvalidTemplateError for sender, got %#v", err)
	}
}

func TestResolve_KeepsExtraTemplateFields(t *testing.T) {
	dc := recipientReceiptCopy()
	dc.Fields["footer"] = model.Text("Thanks")
	resolver := newResolver(t, []model.DocumentCopy{dc})

	renderer, err := resolver.Resolve("RecipientReceipt", "Receipt")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	fields := renderer.Fields()
	for _, field := range renderer.Spec() {
		if _, ok := fields[field.Name]; !ok {
			t.Fatalf("field map is missing spec field %q", field.Name)
		}
	}
	if got, ok := fields["footer"]; !ok || got == nil || *got != "Thanks" {
		t.Fatalf("extra template field lost: %v", got)
	}

	out, err := renderer.Render(sandy50Receipt)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(Receipt{Sender: "Sandy Winchester"}, out); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	t.Run("cached", func(t *testing.T) {
		resolver := newResolver(t, []model.DocumentCopy{recipientReceiptCopy()})
		first, err := resolver.Resolve("RecipientReceipt", "Receipt")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		second, err := resolver.Resolve("RecipientReceipt", "Receipt")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if first != second {
			t.Fatalf("expected cached renderer to be reused")
		}
	})

	t.Run("uncached", func(t *testing.T) {
		resolver := newResolver(t, []model.DocumentCopy{recipientReceiptCopy()}, render.WithoutCache())
		first, err := resolver.Resolve("RecipientReceipt", "Receipt")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		second, err := resolver.Resolve("RecipientReceipt", "Receipt")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if first == second {
			t.Fatalf("expected a fresh renderer without cache")
		}
		if diff := cmp.Diff(first.Fields(), second.Fields()); diff != "" {
			t.Fatalf("fields differ between resolutions (-first +second):\n%s", diff)
		}
		if diff := cmp.Diff(first.Spec(), second.Spec()); diff != "" {
			t.Fatalf("spec differs between resolutions (-first +second):\n%s", diff)
		}

		firstOut, err := first.Render(sandy50Receipt)
		if err != nil {
			t.Fatalf("render first: %v", err)
		}
		secondOut, err := second.Render(sandy50Receipt)
		if err != nil {
			t.Fatalf("render second: %v", err)
		}
		if diff := cmp.Diff(firstOut, secondOut); diff != "" {
			t.Fatalf("output differs between resolutions (-first +second):\n%s", diff)
		}
	})
}

func TestRender_Failures(t *testing.T) {
	resolver := newResolver(t, []model.DocumentCopy{
		recipientReceiptCopy(),
		{Source: "SenderReceipt", Targets: []model.TypeID{"Sms"}},
	})

	receipt, err := resolver.Resolve("RecipientReceipt", "Receipt")
	if err != nil {
		t.Fatalf("resolve receipt: %v", err)
	}
	sms, err := resolver.Resolve("SenderReceipt", "Sms")
	if err != nil {
		t.Fatalf("resolve sms: %v", err)
	}

	cases := []struct {
		name      string
		renderer  *render.Renderer
		copy      any
		wantField string
	}{
		{name: "nil copy", renderer: receipt, copy: nil},
		{name: "typed nil copy", renderer: receipt, copy: (*RecipientReceipt)(nil)},
		{name: "wrong copy model", renderer: receipt, copy: SenderReceipt{Recipient: "Ada"}},
		{name: "required field without template", renderer: sms, copy: SenderReceipt{Recipient: "Ada"}, wantField: "body"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.renderer.Render(tc.copy)
			if !errors.Is(err, render.ErrRenderFailure) {
				t.Fatalf("expected ErrRenderFailure, got %v", err)
			}
			var failure *render.RenderFailureError
			if !errors.As(err, &failure) {
				t.Fatalf("expected RenderFailureError, got %T", err)
			}
			if failure.Field != tc.wantField {
				t.Fatalf("field: want %q, got %q", tc.wantField, failure.Field)
			}
			if failure.Key != tc.renderer.Key() {
				t.Fatalf("key: want %s, got %s", tc.renderer.Key(), failure.Key)
			}
		})
	}
}

func TestRender_Values(t *testing.T) {
	resolver := newResolver(t, []model.DocumentCopy{{
		Source:  "SenderReceipt",
		Targets: []model.TypeID{"Sms"},
	}})
	renderer, err := resolver.Resolve("SenderReceipt", "Sms")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if _, err := renderer.Values(SenderReceipt{}); !errors.Is(err, descriptor.ErrMissingField) {
		t.Fatalf("expected ErrMissingField for required body, got %v", err)
	}
	if _, err := renderer.Values((*SenderReceipt)(nil)); !errors.Is(err, render.ErrRenderFailure) {
		t.Fatalf("expected ErrRenderFailure for a nil pointer, got %v", err)
	}
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	template := map[string]*string{
		"sender": model.Text("{{ sender }}"),
		"footer": model.Text("Thanks"),
	}
	spec := []descriptor.Field{
		{Name: "sender"},
		{Name: "amount", Optional: true},
		{Name: ""},
		{Name: "cancelUrl", Optional: true},
	}

	got, missing := render.Reconcile(template, spec)

	want := map[string]*string{
		"sender":    model.Text("{{ sender }}"),
		"footer":    model.Text("Thanks"),
		"amount":    nil,
		"cancelUrl": nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reconciled mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"amount", "cancelUrl"}, missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}

	*got["sender"] = "changed"
	if *template["sender"] != "{{ sender }}" {
		t.Fatalf("Reconcile mutated its input")
	}
}

func TestRenderer_ConcurrentRender(t *testing.T) {
	dc := recipientReceiptCopy()
	dc.Fields["amount"] = model.Text("{{ amount }}")
	resolver := newResolver(t, []model.DocumentCopy{dc})

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			renderer, err := resolver.Resolve("RecipientReceipt", "Receipt")
			if err != nil {
				errs <- err
				return
			}
			out, err := renderer.Render(sandy50Receipt)
			if err != nil {
				errs <- err
				return
			}
			if got := out.(Receipt); got.Amount == nil || *got.Amount != "$50" {
				errs <- errors.New("unexpected amount")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render: %v", err)
	}
}
