package executil

import "github.com/cockroachdb/errors"

// Call records a single Runner invocation.
type Call struct {
	Name string
	Args []string
}

// FakeRunner is a scripted Runner for tests. Results are keyed by tool name;
// every invocation is recorded in Calls so tests can assert on exact argv.
type FakeRunner struct {
	// Results maps tool name to the result returned for it. A missing
	// entry yields a successful empty result.
	Results map[string]*Result

	// Err, if set, is returned for every invocation (simulates a missing
	// binary).
	Err error

	Calls []Call
}

func (f *FakeRunner) Run(name string, args ...string) (*Result, error) {
	f.Calls = append(f.Calls, Call{Name: name, Args: args})
	if f.Err != nil {
		return nil, errors.Wrapf(f.Err, "spawning %s", name)
	}
	if res, ok := f.Results[name]; ok {
		return res, nil
	}
	return &Result{}, nil
}

// CallsTo returns the recorded invocations of the named tool.
func (f *FakeRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
