package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Version())

	docs := c.Lookup("DocsPendentes")
	assert.Equal(t, Sum, docs.Aggregation)
	assert.Equal(t, Integer, docs.Format)
	assert.Equal(t, LowerIsBetter, docs.Direction)
	require.True(t, docs.Target.Fixed.Valid)
	assert.True(t, docs.Target.Fixed.Decimal.IsZero())

	vpml := c.Lookup("VPML")
	assert.Equal(t, Mean, vpml.Aggregation)
	assert.Equal(t, "Meta VPML", vpml.Target.Dynamic)
	assert.False(t, vpml.Target.Fixed.Valid)

	assert.Equal(t, "Pontualidade", c.Label("Pontual%"))
	assert.Equal(t, HigherIsBetter, c.Direction("Pontual%"))
}

func TestEveryDynamicTargetIsHidden(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	for _, name := range c.Names() {
		if dyn := c.Target(name).Dynamic; dyn != "" {
			assert.True(t, c.Hidden(dyn), "target feed %q of %q should be hidden", dyn, name)
		}
	}
}

func TestUnknownIndicatorDefaults(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	ind := c.Lookup("SomethingNew")
	assert.Equal(t, "SomethingNew", ind.Label)
	assert.Equal(t, c.DefaultTheme(), ind.Theme)
	assert.Equal(t, "Outros", ind.Theme)
	assert.Equal(t, Sum, ind.Aggregation)
	assert.Equal(t, Decimal3, ind.Format)
	assert.False(t, ind.Target.HasTarget())
}

func TestHidden(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.True(t, c.Hidden("PenalBaixaConducao"))
	assert.True(t, c.Hidden("PenalMultasReg"))
	assert.True(t, c.Hidden("Meta VPML"))
	assert.True(t, c.Hidden("KmRodado"))
	assert.False(t, c.Hidden("VPML"))
	assert.False(t, c.Hidden("DocsPendentes"))
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"aggregation": "indicators:\n  X:\n    aggregation: median\n",
		"format":      "indicators:\n  X:\n    format: roman\n",
		"direction":   "indicators:\n  X:\n    direction: sideways\n",
		"both":        "indicators:\n  X:\n    target: { fixed: \"1\", dynamic: \"MetaX\" }\n",
		"fixed":       "indicators:\n  X:\n    target: { fixed: \"abc\" }\n",
		"self":        "indicators:\n  X:\n    target: { dynamic: \"X\" }\n",
		"yaml":        "indicators: [",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalid, name)
	}
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("version: v1\nindicators:\n  X: {}\n"))
	require.NoError(t, err)
	x := c.Lookup("X")
	assert.Equal(t, "X", x.Label)
	assert.Equal(t, "Outros", x.Theme)
	assert.Equal(t, Sum, x.Aggregation)
	assert.Equal(t, Decimal3, x.Format)
	assert.Equal(t, HigherIsBetter, x.Direction)
	assert.False(t, c.Hidden("PenalX"), "no prefix configured")
}
