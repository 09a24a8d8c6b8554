package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessor_DefaultDPI(t *testing.T) {
	assert.Equal(t, 300, NewProcessor(0).dpi)
	assert.Equal(t, 300, NewProcessor(-1).dpi)
	assert.Equal(t, 150, NewProcessor(150).dpi)
}

func TestName(t *testing.T) {
	assert.Equal(t, "pdftotext", NewProcessor(300).Name())
}

func TestPageCount_InvalidPDF(t *testing.T) {
	_, err := NewProcessor(300).PageCount([]byte("not a pdf at all"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "counting pdf pages")
}

func TestWriteTemp(t *testing.T) {
	path, cleanup, err := writeTemp([]byte("%PDF-1.7 content"))
	require.NoError(t, err)
	require.NotEmpty(t, path)
	cleanup()
}

func TestFirstError(t *testing.T) {
	assert.Nil(t, firstError([]error{nil, nil}))
	err := assert.AnError
	assert.Equal(t, err, firstError([]error{nil, err, nil}))
}
