package loader_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/goliatone/go-barber/pkg/loader"
	"github.com/goliatone/go-barber/pkg/model"
)

func TestLoadDir(t *testing.T) {
	copies, err := loader.LoadDir("testdata", loader.WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []model.DocumentCopy{
		{
			Source:  "RecipientReceipt",
			Targets: []model.TypeID{"Receipt", "Sms"},
			Fields: map[string]*string{
				"sender": model.Text("{{ sender }}"),
				"amount": nil,
				"body":   model.Text("{{ sender }} sent you {{ amount }}"),
			},
			Origin: "payments.yaml",
		},
		{
			Source:  "SenderReceipt",
			Targets: []model.TypeID{"Sms"},
			Fields:  map[string]*string{"body": model.Text("You sent {{ amount }} to {{ recipient }}")},
			Origin:  "transfers.hcl",
		},
		{
			Source:  "TransferFailed",
			Targets: []model.TypeID{"Sms", "Email"},
			Fields: map[string]*string{
				"body":    model.Text("Your transfer to {{ recipient }} failed"),
				"subject": model.Text("Transfer failed"),
			},
			Origin: "transfers.hcl",
		},
	}
	if diff := cmp.Diff(want, copies); diff != "" {
		t.Fatalf("copies mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_JSON(t *testing.T) {
	files := fstest.MapFS{
		"copies/receipt.json": {Data: []byte(`{
  "copies": [
    {"source": "RecipientReceipt", "targets": ["Receipt"], "fields": {"sender": "{{ sender }}", "cancelUrl": null}}
  ]
}`)},
	}

	copies, err := loader.LoadFS(files)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(copies) != 1 {
		t.Fatalf("want 1 copy, got %d", len(copies))
	}
	if got := copies[0].Fields["cancelUrl"]; got != nil {
		t.Fatalf("cancelUrl should be nil, got %q", *got)
	}
	if copies[0].Origin != "copies/receipt.json" {
		t.Fatalf("origin: got %q", copies[0].Origin)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name:  "empty file",
			files: fstest.MapFS{"a.yaml": {Data: []byte("  \n")}},
			want:  "a.yaml is empty",
		},
		{
			name:  "malformed yaml",
			files: fstest.MapFS{"a.yaml": {Data: []byte("copies: [")}},
			want:  "parse a.yaml",
		},
		{
			name:  "unknown key",
			files: fstest.MapFS{"a.yaml": {Data: []byte("copies: []\nextra: true\n")}},
			want:  "does not match the copies schema",
		},
		{
			name:  "missing targets",
			files: fstest.MapFS{"a.yaml": {Data: []byte("copies:\n  - source: A\n")}},
			want:  "does not match the copies schema",
		},
		{
			name:  "non-string field",
			files: fstest.MapFS{"a.yaml": {Data: []byte("copies:\n  - source: A\n    targets: [B]\n    fields:\n      n: [1]\n")}},
			want:  "/copies/0/fields/n",
		},
		{
			name:  "unsupported version",
			files: fstest.MapFS{"a.yaml": {Data: []byte("apiVersion: \"2.0.0\"\ncopies: []\n")}},
			want:  "apiVersion 2.0.0 is not supported",
		},
		{
			name:  "bad version",
			files: fstest.MapFS{"a.yaml": {Data: []byte("apiVersion: \"one\"\ncopies: []\n")}},
			want:  "parse apiVersion",
		},
		{
			name:  "malformed hcl",
			files: fstest.MapFS{"a.hcl": {Data: []byte("copy \"A\" {")}},
			want:  "parse a.hcl",
		},
		{
			name:  "hcl missing targets",
			files: fstest.MapFS{"a.hcl": {Data: []byte("copy \"A\" {\n}\n")}},
			want:  "decode a.hcl",
		},
		{
			name: "duplicate source",
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("copies:\n  - source: A\n    targets: [B]\n")},
				"b.hcl":  {Data: []byte("copy \"A\" {\n  targets = [\"C\"]\n}\n")},
			},
			want: "copy model \"A\" declared in a.yaml and b.hcl",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := loader.LoadFS(tc.files)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadFS_SchemaErrorIssues(t *testing.T) {
	files := fstest.MapFS{"a.yaml": {Data: []byte("copies:\n  - source: \"\"\n    targets: [B, B]\n")}}

	_, err := loader.LoadFS(files)
	var schemaErr *loader.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.File != "a.yaml" {
		t.Fatalf("file: got %q", schemaErr.File)
	}

	paths := make(map[string]bool, len(schemaErr.Issues))
	for _, issue := range schemaErr.Issues {
		paths[issue.Path] = true
	}
	for _, want := range []string{"/copies/0/source", "/copies/0/targets"} {
		if !paths[want] {
			t.Fatalf("expected an issue at %s, got %+v", want, schemaErr.Issues)
		}
	}
}

func TestLoadFS_NilAndIgnored(t *testing.T) {
	copies, err := loader.LoadFS(nil)
	if err != nil || copies != nil {
		t.Fatalf("nil fs: got %v, %v", copies, err)
	}

	copies, err = loader.LoadFS(fstest.MapFS{"README.md": {Data: []byte("# copies")}})
	if err != nil || len(copies) != 0 {
		t.Fatalf("ignored files: got %v, %v", copies, err)
	}
}

func TestLoadDir_NotADirectory(t *testing.T) {
	if _, err := loader.LoadDir("testdata/payments.yaml"); err == nil {
		t.Fatalf("expected error for a file path")
	}
}
