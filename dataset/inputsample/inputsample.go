/*
Package inputsample reads the feature values of a sample to classify from an
io.Reader, one value per line, typically as answers to prompts on a terminal.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pbanos/arbor/feature"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string, error) error
}

/*
Read takes an io.Reader, a slice of features and a FeatureValueRequester and
returns the values read for each feature, in the same order.

Before reading the value for a feature, it is requested with the
FeatureValueRequester's RequestValueFor method. Each value is expected on a
line of its own and parsed with feature.Parse. Lines with values the feature
does not accept are rejected with the FeatureValueRequester's RejectValueFor
method and the next line is read instead.

An error is returned if the requester fails, the reader fails or the reader
is exhausted before all values are read.
*/
func Read(r io.Reader, features []feature.Feature, fvr FeatureValueRequester) ([]feature.Value, error) {
	scanner := bufio.NewScanner(r)
	values := make([]feature.Value, 0, len(features))
	for _, f := range features {
		err := fvr.RequestValueFor(f)
		if err != nil {
			return nil, err
		}
		v, err := readValue(scanner, f, fvr)
		if err != nil {
			return nil, fmt.Errorf("reading value for %s: %w", f.Name(), err)
		}
		values = append(values, v)
	}
	return values, nil
}

func readValue(scanner *bufio.Scanner, f feature.Feature, fvr FeatureValueRequester) (feature.Value, error) {
	for scanner.Scan() {
		line := scanner.Text()
		v := feature.Parse(line)
		ok, verr := f.Valid(v)
		if ok {
			return v, nil
		}
		err := fvr.RejectValueFor(f, line, verr)
		if err != nil {
			return feature.Value{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return feature.Value{}, err
	}
	return feature.Value{}, io.ErrUnexpectedEOF
}

/*
Prompter is a FeatureValueRequester that writes prompts and rejections onto
an io.Writer, listing the available values of discrete features.
*/
type Prompter struct {
	W io.Writer
}

// RequestValueFor writes a prompt for a value of the given feature.
func (p Prompter) RequestValueFor(f feature.Feature) error {
	if df, ok := f.(*feature.DiscreteFeature); ok && len(df.AvailableValues()) > 0 {
		_, err := fmt.Fprintf(p.W, "%s %v? ", f.Name(), df.AvailableValues())
		return err
	}
	_, err := fmt.Fprintf(p.W, "%s? ", f.Name())
	return err
}

// RejectValueFor tells the given value is not valid for the feature and asks
// for another one.
func (p Prompter) RejectValueFor(f feature.Feature, value string, reason error) error {
	_, err := fmt.Fprintf(p.W, "invalid value %q (%v), try again: ", value, reason)
	return err
}
