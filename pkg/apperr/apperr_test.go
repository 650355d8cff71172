package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = New(KindNotFound, "sample_not_found", "sample not found")

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(errSample))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("load: %w", errSample)))
	assert.Equal(t, KindStorage, KindOf(Storage("insert", errors.New("conn reset"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestStorageKeepsDomainErrors(t *testing.T) {
	err := Storage("insert", errSample)
	assert.True(t, errors.Is(err, errSample))
	assert.Equal(t, KindNotFound, KindOf(err))

	assert.Nil(t, Storage("noop", nil))
}

func TestCodeAndMessage(t *testing.T) {
	assert.Equal(t, "sample_not_found", CodeOf(errSample))
	assert.Equal(t, "sample not found", MessageOf(errSample))

	storageErr := Storage("select", errors.New("dial tcp: refused"))
	assert.Equal(t, "storage_error", CodeOf(storageErr))
	assert.Equal(t, "storage unavailable", MessageOf(storageErr))
	assert.Contains(t, storageErr.Error(), "select")
}
