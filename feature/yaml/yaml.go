/*
Package yaml provides methods to parse feature.Feature specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pbanos/arbor/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
Metadata describes the columns of a dataset: the ordered features and the
name of the label column.
*/
type Metadata struct {
	Features []feature.Feature
	Label    string
}

type featureDeclaration struct {
	Name   string        `yaml:"name"`
	Type   string        `yaml:"type"`
	Values []interface{} `yaml:"values"`
}

/*
ReadMetadata takes a slice of bytes with a feature specification in YML and
returns the metadata parsed from it or an error.
The YML is expected to be an object with an optional label property naming the
label column and a features property holding a list of features. Each feature
is an object with a name and an optional list of values it may take. The order
of the list is the order of the dataset columns.

Features declared with type continuous are rejected: trees only split on
discretized values.
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	doc := struct {
		Label    string               `yaml:"label"`
		Features []featureDeclaration `yaml:"features"`
	}{}
	err := yaml.Unmarshal(md, &doc)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if len(doc.Features) == 0 {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	seen := make(map[string]bool)
	features := make([]feature.Feature, 0, len(doc.Features))
	for i, fd := range doc.Features {
		if fd.Name == "" {
			return nil, fmt.Errorf("feature #%d has no name", i)
		}
		if seen[fd.Name] {
			return nil, fmt.Errorf("feature %s declared more than once", fd.Name)
		}
		seen[fd.Name] = true
		switch fd.Type {
		case "", "discrete":
		case "continuous":
			return nil, fmt.Errorf("feature %s is continuous, discretize it before growing a tree", fd.Name)
		default:
			return nil, fmt.Errorf("invalid feature type %q for feature %s", fd.Type, fd.Name)
		}
		values := make([]feature.Value, 0, len(fd.Values))
		for _, v := range fd.Values {
			values = append(values, feature.Parse(fmt.Sprintf("%v", v)))
		}
		features = append(features, feature.NewDiscreteFeature(fd.Name, values))
	}
	if doc.Label != "" && seen[doc.Label] {
		return nil, fmt.Errorf("label %s cannot also be a feature", doc.Label)
	}
	return &Metadata{Features: features, Label: doc.Label}, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	metadata, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return metadata, err
}
