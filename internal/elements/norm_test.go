package elements

import "testing"

func TestNorm(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "  Big   RED\tBall! ", want: "big red ball"},
		{in: "rock&roll / jazz+blues", want: "rock&roll / jazz+blues"},
		{in: "T-shirt (striped)", want: "t-shirt striped"},
		{in: "snake_case", want: "snake_case"},
		{in: "Café au lait", want: "café au lait"},
		{in: "ÄPFEL", want: "äpfel"},
		{in: "2 cups", want: "2 cups"},
		{in: "$%^", want: ""},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := Norm(tc.in); got != tc.want {
			t.Fatalf("Norm(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
