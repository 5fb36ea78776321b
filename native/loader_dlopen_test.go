//go:build linux && cgo

package native

import (
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDlLoader(t *testing.T) {
	l := SystemLoader()

	h, err := l.Open("libc.so.6")
	if err != nil {
		t.Skipf("libc.so.6 not available: %v", err)
	}

	addr, err := l.Symbol(h, "strlen")
	require.NoError(t, err)
	assert.NotZero(t, addr)

	_, err = l.Symbol(h, "gapi_no_such_symbol")
	assert.ErrorContains(t, err, "dlsym gapi_no_such_symbol")
}

func TestDlLoaderErrorsMatchCall(t *testing.T) {
	l := SystemLoader()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("libgapi-missing-%d.so", i)
			_, err := l.Open(name)
			if !assert.Error(t, err) {
				return
			}
			// the message comes from this call's dlerror, not a neighbour's
			quoted := regexp.QuoteMeta(name)
			assert.Regexp(t, "^dlopen "+quoted+": .*"+quoted, err.Error())
		}()
	}
	wg.Wait()
}
