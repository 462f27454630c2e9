// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and builders for StatCan extract fixtures:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteExtract(t, t.TempDir(), testutil.StandardExtract()...)
//	    ...
//	    assert.True(t, logs.ContainsMessage("Step completed"))
//	}
//
// Nothing here may depend on other internal packages except
// pkg/contracts/domain.
package shared
