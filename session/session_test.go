package session

import (
	"reflect"
	"testing"

	"github.com/mohammad-safakhou/grocer/models"
)

func user(s string) models.Message {
	return models.Message{Role: models.RoleUser, Content: s}
}

func assistant(s string) models.Message {
	return models.Message{Role: models.RoleAssistant, Content: s}
}

func TestUserQuestions(t *testing.T) {
	t.Parallel()
	h := History{user("a"), assistant("x"), user("b"), assistant("y")}
	if got := h.UserQuestions(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("UserQuestions() = %v", got)
	}
	if got := (History{}).UserQuestions(); len(got) != 0 {
		t.Fatalf("expected no questions, got %v", got)
	}
}

func TestLast(t *testing.T) {
	t.Parallel()
	h := History{user("1"), assistant("2"), user("3")}
	tests := []struct {
		n    int
		want History
	}{
		{n: 0, want: nil},
		{n: 2, want: History{assistant("2"), user("3")}},
		{n: 8, want: h},
	}
	for _, tt := range tests {
		if got := h.Last(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("Last(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestAppendDoesNotAlias(t *testing.T) {
	t.Parallel()
	base := make(History, 1, 4)
	base[0] = user("a")
	one := base.Append(assistant("b"))
	two := base.Append(assistant("c"))
	if one[1].Content != "b" || two[1].Content != "c" || len(base) != 1 {
		t.Fatalf("Append aliased the receiver: %v %v %v", base, one, two)
	}
}
