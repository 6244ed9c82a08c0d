// Package harness runs expectation cases stored as YAML files.
//
// # Case Format
//
//	name: adult_user
//	description: "Users must be adults with a company address"
//	subset: true
//	expected: !expect
//	  name: !match.not_null
//	  age: !match.greater_or_equal 18
//	  email: !match.like "*@example.com"
//	observed:
//	  name: Alice
//	  age: 30
//	  email: alice@example.com
//	want: pass
//
// The observation may live in a separate JSON, YAML or CUE document
// instead, referenced with observed_file relative to the case file. Cases
// that document a mismatch set want: fail and may pin the failing paths
// with failed_keys.
//
// # Golden Files
//
// Every case renders a snapshot (outcome, failing paths and the YAML diff)
// that can be compared against golden/{name}.golden next to the case file.
// In tests, RunWithGolden does the same through goldie.
//
// # Usage
//
//	c, err := harness.LoadCase("testdata/cases/adult_user.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.New(harness.WithLogger(logger)).Run(c)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
