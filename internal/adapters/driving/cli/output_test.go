package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

func TestStylesFor_NonTerminalIsPlain(t *testing.T) {
	st := stylesFor(new(bytes.Buffer))
	assert.Equal(t, "10.0.0.1", st.Address.Render("10.0.0.1"))
}

func TestPrintResult(t *testing.T) {
	source := domain.NewSourceDescriptor("image", "cam.jpg")

	t.Run("single address", func(t *testing.T) {
		buf := new(bytes.Buffer)
		result := &domain.ResultSet{
			Source:    source,
			Addresses: []domain.ValidatedAddress{{Address: "10.0.0.1", Family: domain.FamilyIPv4, Origin: "metadata"}},
		}

		printResult(buf, plainStyles(), source, result, nil)

		assert.Contains(t, buf.String(), "Image: cam.jpg (1 address)")
		assert.Contains(t, buf.String(), "metadata")
	})

	t.Run("failed run", func(t *testing.T) {
		buf := new(bytes.Buffer)

		printResult(buf, plainStyles(), source, nil, errors.New("boom"))

		assert.Equal(t, "Image: cam.jpg failed: boom\n", buf.String())
	})
}

func TestToJSONResult_Failure(t *testing.T) {
	source := domain.NewSourceDescriptor("website", "https://example.com")

	out := toJSONResult(source, nil, errors.New("unreachable"))

	assert.Equal(t, "website", out.Kind)
	assert.Equal(t, "unreachable", out.Error)
	assert.Empty(t, out.RunID)
	assert.NotNil(t, out.Addresses)
}
