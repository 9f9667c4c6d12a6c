package registry_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-barber/pkg/model"
	"github.com/goliatone/go-barber/pkg/registry"
	"github.com/goliatone/go-barber/pkg/testsupport"
)

func TestNew_PreservesInstallationOrder(t *testing.T) {
	reg, err := registry.New(
		model.DocumentCopy{Source: "RecipientReceipt", Targets: []model.TypeID{"Receipt"}},
		model.DocumentCopy{Source: "SenderReceipt", Targets: []model.TypeID{"Sms", "Email"}},
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if diff := cmp.Diff([]model.TypeID{"RecipientReceipt", "SenderReceipt"}, reg.Sources()); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}
	if reg.Len() != 2 {
		t.Fatalf("len: want 2, got %d", reg.Len())
	}

	all := reg.All()
	if len(all) != 2 || all[1].Source != "SenderReceipt" {
		t.Fatalf("All order mismatch: %+v", all)
	}
	if diff := cmp.Diff([]model.TypeID{"Sms", "Email"}, all[1].Targets); diff != "" {
		t.Fatalf("targets order mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	reg := registry.MustNew(model.DocumentCopy{
		Source:  "RecipientReceipt",
		Targets: []model.TypeID{"Receipt"},
		Fields:  map[string]*string{"sender": model.Text("{{ sender }}")},
	})

	dc, ok := reg.Lookup("RecipientReceipt")
	if !ok {
		t.Fatalf("expected RecipientReceipt to be installed")
	}
	*dc.Fields["sender"] = "mutated"

	again, _ := reg.Lookup("RecipientReceipt")
	if got := *again.Fields["sender"]; got != "{{ sender }}" {
		t.Fatalf("lookup leaked mutable state: %q", got)
	}

	if _, ok := reg.Lookup("Unknown"); ok {
		t.Fatalf("unexpected lookup hit for Unknown")
	}
}

func TestNew_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		copies []model.DocumentCopy
		want   string
	}{
		{
			name:   "blank source",
			copies: []model.DocumentCopy{{Targets: []model.TypeID{"Receipt"}}},
			want:   "no source copy model",
		},
		{
			name:   "no targets",
			copies: []model.DocumentCopy{{Source: "RecipientReceipt"}},
			want:   "declares no targets",
		},
		{
			name:   "blank target",
			copies: []model.DocumentCopy{{Source: "RecipientReceipt", Targets: []model.TypeID{"Receipt", ""}}},
			want:   "blank target at index 1",
		},
		{
			name:   "duplicate target",
			copies: []model.DocumentCopy{{Source: "RecipientReceipt", Targets: []model.TypeID{"Receipt", "Receipt"}}},
			want:   "lists target \"Receipt\" twice",
		},
		{
			name: "blank field name",
			copies: []model.DocumentCopy{{
				Source:  "RecipientReceipt",
				Targets: []model.TypeID{"Receipt"},
				Fields:  map[string]*string{" ": nil},
			}},
			want: "blank field name",
		},
		{
			name: "duplicate source",
			copies: []model.DocumentCopy{
				{Source: "RecipientReceipt", Targets: []model.TypeID{"Receipt"}, Origin: "a.yaml"},
				{Source: "RecipientReceipt", Targets: []model.TypeID{"Sms"}, Origin: "b.yaml"},
			},
			want: "installed twice (a.yaml, b.yaml)",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := registry.New(tc.copies...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestNilRegistry(t *testing.T) {
	var reg *registry.Registry
	if _, ok := reg.Lookup("any"); ok {
		t.Fatalf("nil registry lookup should miss")
	}
	if reg.Len() != 0 || reg.All() != nil || reg.Sources() != nil {
		t.Fatalf("nil registry should be empty")
	}
}

func TestNew_ReportsBothOrigins(t *testing.T) {
	fixture := "testdata/duplicates.yaml"
	copies := testsupport.LoadDocumentCopies(t, fixture)

	override := model.DocumentCopy{Source: "RecipientReceipt", Targets: []model.TypeID{"Email"}}
	_, err := registry.New(append(copies, override)...)
	if err == nil {
		t.Fatal("expected duplicate source error")
	}
	want := `registry: copy model "RecipientReceipt" installed twice (testdata/duplicates.yaml, code)`
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Fatalf("error mismatch (-want +got):\n%s", diff)
	}
}
