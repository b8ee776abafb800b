package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCmdRejectsBadInputBeforeRunning(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "no images", args: []string{}, want: "requires at least 1 arg"},
		{name: "bad size", args: []string{"--size", "640x480", "a.png"}, want: "unsupported --size"},
		{name: "bad style", args: []string{"--style", "oil", "a.png"}, want: "unknown --style"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tc.args)
			err := cmd.Execute()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Execute err = %v, want %q", err, tc.want)
			}
		})
	}
}
