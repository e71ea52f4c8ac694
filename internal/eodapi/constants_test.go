package eodapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExchangeID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "NYSE collapses to US", in: "NYSE", want: "US"},
		{name: "NASDAQ collapses to US", in: "NASDAQ", want: "US"},
		{name: "PINK collapses to US", in: "PINK", want: "US"},
		{name: "US passes through", in: "US", want: "US"},
		{name: "LSE passes through", in: "LSE", want: "LSE"},
		{name: "empty passes through", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeExchangeID(tt.in))
		})
	}
}

func TestIsExcludedExchange(t *testing.T) {
	assert.True(t, IsExcludedExchange("US"))
	assert.True(t, IsExcludedExchange("NMFQS"))
	assert.True(t, IsExcludedExchange(""), "empty label is always excluded")
	assert.False(t, IsExcludedExchange("NYSE"))
	assert.False(t, IsExcludedExchange("LSE"))
}

func TestIsIntradayFrequency(t *testing.T) {
	for _, freq := range IntradayFrequencies {
		assert.True(t, IsIntradayFrequency(freq), freq)
	}
	assert.False(t, IsIntradayFrequency("1d"))
	assert.False(t, IsIntradayFrequency(""))
}
