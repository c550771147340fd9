package content

import "testing"

func TestHasNestedTernary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "single ternary",
			text: "const x = ok ? 1 : 2;",
			want: false,
		},
		{
			name: "chained ternary",
			text: "const label = a === 1 ? 'one' : a === 2 ? 'two' : 'many';",
			want: true,
		},
		{
			name: "truly nested ternary",
			text: "const x = a ? (b ? 1 : 2) : 3;",
			want: true,
		},
		{
			name: "chain across lines without semicolons",
			text: "const label = s === 'active' ? 'Active'\n  : s === 'pending' ? 'Pending'\n  : 'Unknown'",
			want: true,
		},
		{
			name: "two separate statements",
			text: "const x = a ? 1 : 2;\nconst y = b ? 3 : 4;",
			want: false,
		},
		{
			name: "nullish and optional chaining are not ternaries",
			text: "const x = a ?? b; const y = c?.d ?? e;",
			want: false,
		},
		{
			name: "empty",
			text: "",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasNestedTernary(tt.text); got != tt.want {
				t.Fatalf("hasNestedTernary(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestHasCallbackPyramid(t *testing.T) {
	pyramid := `getUser(id, function (user) {
  getOrders(user, function (orders) {
    getTotals(orders, function (totals) {
      done(totals);
    });
  });
});`

	arrows := `getUser(id, user => {
  getOrders(user, orders => {
    getTotals(orders, (totals) => done(totals));
  });
});`

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"function keyword pyramid", pyramid, true},
		{"arrow pyramid", arrows, true},
		{"two callbacks is not a pyramid", "a(x => f(x)); b(y => g(y));", false},
		{"plain calls", "const x = f(g(h(1)));", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasCallbackPyramid(tt.text); got != tt.want {
				t.Fatalf("hasCallbackPyramid = %v, want %v", got, tt.want)
			}
		})
	}
}
