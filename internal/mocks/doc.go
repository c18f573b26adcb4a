// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized mocks can be reused across packages. Each mock records its
// calls so tests can assert on how many times and with what input it ran.
//
// Usage:
//
//	import "github.com/phrazzld/study-buddy/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    gen := &mocks.MockGenerator{
//	        GenerateFn: func(ctx context.Context, prompt string) (string, error) {
//	            return "generated", nil
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
package mocks
