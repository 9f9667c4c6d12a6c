package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

type hclManifest struct {
	APIVersion string    `hcl:"api_version,optional"`
	Copies     []hclCopy `hcl:"copy,block"`
}

type hclCopy struct {
	Source  string             `hcl:"source,label"`
	Targets []string           `hcl:"targets"`
	Fields  map[string]*string `hcl:"fields,optional"`
}

// parseHCL decodes an HCL file. HCL templates treat `%{` as a directive, so
// pongo2 tags must be written as `%%{ ... %}` in HCL strings.
func parseHCL(parser *hclparse.Parser, file string, data []byte) (manifest, error) {
	hclFile, diags := parser.ParseHCL(data, file)
	if diags.HasErrors() {
		return manifest{}, fmt.Errorf("loader: parse %s: %s", file, diags.Error())
	}

	var parsed hclManifest
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return manifest{}, fmt.Errorf("loader: decode %s: %s", file, diags.Error())
	}

	doc := manifest{
		APIVersion: parsed.APIVersion,
		Copies:     make([]copyEntry, 0, len(parsed.Copies)),
	}
	for _, block := range parsed.Copies {
		doc.Copies = append(doc.Copies, copyEntry{
			Source:  block.Source,
			Targets: block.Targets,
			Fields:  block.Fields,
		})
	}

	if err := validate(file, doc); err != nil {
		return manifest{}, err
	}
	return doc, nil
}
