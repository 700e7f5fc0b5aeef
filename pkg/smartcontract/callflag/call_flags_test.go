package callflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallFlag_Has(t *testing.T) {
	require.True(t, AllowCall.Has(AllowCall))
	require.True(t, (AllowCall | AllowNotify).Has(AllowCall))
	require.False(t, (AllowCall).Has(AllowCall|AllowNotify))
	require.True(t, All.Has(ReadOnly))
}

func TestCallFlagString(t *testing.T) {
	var cases = map[CallFlag]string{
		NoneFlag:                  "None",
		All:                       "All",
		ReadStates:                "ReadStates",
		States:                    "States",
		ReadOnly:                  "ReadOnly",
		States | AllowCall:        "ReadOnly, WriteStates",
		ReadOnly | AllowNotify:    "ReadOnly, AllowNotify",
		States | AllowNotify:      "States, AllowNotify",
		ReadStates | AllowNotify:  "ReadStates, AllowNotify",
		WriteStates | AllowCall:   "WriteStates, AllowCall",
		AllowCall | AllowNotify:   "AllowCall, AllowNotify",
		WriteStates | AllowNotify: "WriteStates, AllowNotify",
	}
	for fl, str := range cases {
		require.Equal(t, str, fl.String())
	}
}

func TestFromString(t *testing.T) {
	var cases = map[string]struct {
		flag CallFlag
		err  bool
	}{
		"None":                    {NoneFlag, false},
		"All":                     {All, false},
		"ReadStates":              {ReadStates, false},
		"ReadOnly, AllowNotify":   {ReadOnly | AllowNotify, false},
		"States,AllowNotify":      {States | AllowNotify, false},
		"ReadStates, AllowNotify": {ReadStates | AllowNotify, false},
		"None, AllowNotify":       {NoneFlag, true},
		"someFlag":                {NoneFlag, true},
	}
	for str, cf := range cases {
		f, err := FromString(str)
		require.Equal(t, cf.err, err != nil, str)
		require.Equal(t, cf.flag, f, str)
	}
}
