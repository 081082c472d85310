package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/startasm-lang/startasm/internal/ast"
)

func TestPrintTree(t *testing.T) {
	root := ast.NewRootNode()
	create := ast.NewInstructionNode("create", ast.InstructionCreate, ast.Binary, 1)
	create.InsertChild(ast.NewOperandNode("3", ast.OperandInteger, 1, 0))
	create.InsertChild(ast.NewOperandNode("r0", ast.OperandRegister, 1, 1))
	root.InsertChild(create)
	root.InsertChild(ast.NewInstructionNode("stop", ast.InstructionStop, ast.Nullary, 2))

	var buf bytes.Buffer
	if err := PrintTree(&buf, root); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"ROOT (2 instructions)", "1: create (binary)", "integer 3", "register r0", "2: stop (nullary)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "create") > strings.Index(out, "integer 3") {
		t.Errorf("operands should follow their instruction:\n%s", out)
	}
	if strings.Index(out, "register r0") > strings.Index(out, "stop") {
		t.Errorf("operands leaked past their instruction:\n%s", out)
	}
}

func TestPrintNil(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTree(&buf, nil); err != nil || buf.Len() != 0 {
		t.Errorf("nil root should print nothing, got %q, %v", buf.String(), err)
	}
}
