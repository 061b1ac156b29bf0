/*
Package mongodataset stores training samples on a MongoDB collection and
reads them back as a dataset.Table. Every sample is a document with one field
per feature plus one for the label.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	samplesCollectionName = "samples"
)

/*
Collection gives access to the samples of a MongoDB collection described by
a list of features and the name of the label field.
*/
type Collection struct {
	session  *mgo.Session
	name     string
	features []feature.Feature
	label    string
}

/*
Open takes a MongoDB database session, the name of a collection (the samples
collection if empty), the features and the label field of its documents, and
returns a Collection on the default database for that session or an error if
the field names are not valid or its indexes cannot be ensured.
*/
func Open(ctx context.Context, session *mgo.Session, name string, features []feature.Feature, label string) (*Collection, error) {
	if name == "" {
		name = samplesCollectionName
	}
	c := &Collection{session, name, features, label}
	err := validateFieldNames(append(feature.Names(features), label))
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	err = c.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return c, nil
}

/*
Write inserts the samples of the given table as documents on the collection
and returns the number of inserted samples. The table's features must be
those of the collection.
*/
func (c *Collection) Write(ctx context.Context, tbl *dataset.Table) (int, error) {
	if tbl.Arity() != len(c.features) {
		return 0, fmt.Errorf("writing %d features on a collection with %d: %w", tbl.Arity(), len(c.features), dataset.ErrArityMismatch)
	}
	docs := make([]interface{}, 0, tbl.Len())
	for _, s := range tbl.Samples() {
		docs = append(docs, c.document(s))
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	err := c.collection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

/*
Read returns a table with the documents of the collection matching the given
query (all of them if nil), or an error if a document lacks a field or has
values that cannot be used as feature values.
*/
func (c *Collection) Read(ctx context.Context, query bson.M) (*dataset.Table, error) {
	var samples []dataset.Sample
	var doc bson.M
	iter := c.collection().Find(query).Iter()
	defer iter.Close()
	for iter.Next(&doc) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s, err := c.sample(doc)
		if err != nil {
			return nil, fmt.Errorf("reading document #%d: %w", len(samples), err)
		}
		samples = append(samples, s)
		doc = nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return dataset.New(c.features, samples)
}

// Count returns the number of documents on the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	return c.collection().Count()
}

func (c *Collection) document(s dataset.Sample) bson.M {
	doc := make(bson.M, len(c.features)+1)
	for i, f := range c.features {
		doc[f.Name()] = bsonValue(s.Values[i])
	}
	doc[c.label] = bsonValue(s.Label)
	return doc
}

func (c *Collection) sample(doc bson.M) (dataset.Sample, error) {
	values := make([]feature.Value, len(c.features))
	for i, f := range c.features {
		v, err := fieldValue(doc, f.Name())
		if err != nil {
			return dataset.Sample{}, err
		}
		values[i] = v
	}
	label, err := fieldValue(doc, c.label)
	if err != nil {
		return dataset.Sample{}, err
	}
	return dataset.Sample{Values: values, Label: label}, nil
}

func bsonValue(v feature.Value) interface{} {
	if f, ok := v.Float(); ok {
		return f
	}
	if s, ok := v.Text(); ok {
		return s
	}
	return nil
}

func fieldValue(doc bson.M, name string) (feature.Value, error) {
	raw, ok := doc[name]
	if !ok || raw == nil {
		return feature.Value{}, fmt.Errorf("field %q is missing: %w", name, dataset.ErrInvalidValue)
	}
	switch r := raw.(type) {
	case float64:
		return feature.Number(r), nil
	case int:
		return feature.Number(float64(r)), nil
	case int64:
		return feature.Number(float64(r)), nil
	case string:
		return feature.Symbol(r), nil
	case bool:
		return feature.Symbol(fmt.Sprint(r)), nil
	}
	return feature.Value{}, fmt.Errorf("field %q holds a %T: %w", name, raw, dataset.ErrInvalidValue)
}

func validateFieldNames(names []string) error {
	for _, name := range names {
		if name == "" || name == "_id" {
			return fmt.Errorf("invalid field name %q: empty or reserved", name)
		}
		if strings.ContainsAny(name, ".$") {
			return fmt.Errorf("invalid field name %q: contains reserved characters %q or %q", name, ".", "$")
		}
	}
	return nil
}

func (c *Collection) ensureIndexes() error {
	for _, f := range c.features {
		index := mgo.Index{
			Key:        []string{f.Name()},
			Background: true,
			Sparse:     true,
		}
		err := c.collection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) collection() *mgo.Collection {
	return c.session.DB("").C(c.name)
}
