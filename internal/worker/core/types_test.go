package core

import (
	"context"
	"errors"
	"testing"
)

type echoNode struct{ nodeType string }

func (n *echoNode) Type() string { return n.nodeType }

func (n *echoNode) Execute(ctx context.Context, execCtx *ExecutionContext) (map[string]interface{}, error) {
	return CopyMap(execCtx.Input), nil
}

func TestRegisterAndGet(t *testing.T) {
	Register(&echoNode{nodeType: "test.echo"}, NodeMeta{
		Name:        "Echo",
		Description: "Returns its input",
		Version:     "1.0.0",
	})
	Register(&echoNode{nodeType: "bare"})

	if Get("test.echo") == nil {
		t.Fatal("Get(test.echo) = nil")
	}
	if Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}

	meta, ok := GetMeta("test.echo")
	if !ok {
		t.Fatal("GetMeta(test.echo) not found")
	}
	if meta.Type != "test.echo" || meta.Name != "Echo" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Category != "test" {
		t.Errorf("Category = %q, want category derived from type", meta.Category)
	}

	bare, _ := GetMeta("bare")
	if bare.Name != "bare" || bare.Category != "other" {
		t.Errorf("default meta = %+v", bare)
	}
}

func TestListings(t *testing.T) {
	Register(&echoNode{nodeType: "list.b"})
	Register(&echoNode{nodeType: "list.a"})

	types := List()
	for i := 1; i < len(types); i++ {
		if types[i-1] > types[i] {
			t.Fatalf("List() not sorted: %v", types)
		}
	}
	if Count() != len(types) {
		t.Errorf("Count() = %d, List() has %d", Count(), len(types))
	}

	inList := ListByCategory("list")
	if len(inList) != 2 || inList[0].Type != "list.a" || inList[1].Type != "list.b" {
		t.Errorf("ListByCategory(list) = %+v", inList)
	}
	if len(ListAll()) != Count() {
		t.Errorf("ListAll() has %d entries, want %d", len(ListAll()), Count())
	}
	if Categories()["list"] != 2 {
		t.Errorf("Categories()[list] = %d, want 2", Categories()["list"])
	}
}

func TestExecute(t *testing.T) {
	Register(&echoNode{nodeType: "test.exec"})

	out, err := Execute(context.Background(), "test.exec", NewExecutionContext("n1", nil, map[string]interface{}{"x": 1}))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out["x"] != 1 {
		t.Errorf("output = %v", out)
	}

	_, err = Execute(context.Background(), "nope.none", NewExecutionContext("n2", nil, nil))
	if !errors.Is(err, ErrUnknownNodeType) {
		t.Errorf("Execute unknown error = %v", err)
	}
}

func TestNewExecutionContext(t *testing.T) {
	a := NewExecutionContext("n", nil, nil)
	b := NewExecutionContext("n", nil, nil)
	if a.ExecutionID == b.ExecutionID {
		t.Error("execution ids should be unique")
	}
	if a.Config == nil || a.Input == nil {
		t.Error("maps should be initialised")
	}
}
