package codegen_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llir/llvm/ir/value"

	"github.com/startasm-lang/startasm/internal/cli"
	"github.com/startasm-lang/startasm/internal/codegen"
	"github.com/startasm-lang/startasm/internal/lir"
)

func opKinds(m *lir.Module) []lir.OpKind {
	var kinds []lir.OpKind
	for _, op := range m.Ops() {
		kinds = append(kinds, op.Kind)
	}
	return kinds
}

func constInt(v value.Value) int64 {
	n, ok := lir.ConstInt(v)
	ExpectWithOffset(1, ok).To(BeTrue(), "expected a folded constant, got %v", v)
	return n
}

func generationError(err error) *codegen.Error {
	var cerr *codegen.Error
	ExpectWithOffset(1, errors.As(err, &cerr)).To(BeTrue())
	return cerr
}

var _ = Describe("Generator", func() {
	var gen *codegen.Generator

	BeforeEach(func() {
		gen = codegen.New()
	})

	Context("fail-fast errors", func() {
		It("should reject a read of an unassigned register", func() {
			mod, err := gen.Generate(program("move r0 r1"), 1)

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, codegen.ErrGeneration)).To(BeTrue())
			cerr := generationError(err)
			Expect(cerr.Kind).To(Equal(codegen.UninitializedRegister))
			Expect(cerr.Register).To(Equal("r0"))
			Expect(cerr.Line).To(Equal(1))
			Expect(cerr.Error()).To(ContainSubstring("r0"))
			Expect(cerr.Error()).To(ContainSubstring("line 1"))
			Expect(mod.NumOps()).To(BeZero())
		})

		It("should emit nothing past the first error", func() {
			mod, err := gen.Generate(program(
				"create 1 r0",
				"move r5 r1",
				"create 2 r2",
				"move r7 r3",
			), 4)

			Expect(err).To(HaveOccurred())
			Expect(generationError(err).Line).To(Equal(2))
			Expect(gen.Errors()).To(HaveLen(1))
			Expect(opKinds(mod)).To(Equal([]lir.OpKind{lir.OpStore}))

			b, ok := gen.Binding("r2")
			Expect(ok).To(BeTrue())
			Expect(b.Bound()).To(BeFalse())
		})

		It("should reject the second source of an arithmetic instruction", func() {
			mod, err := gen.Generate(program("create 1 r0", "add r0 r1 r2"), 2)

			Expect(generationError(err).Register).To(Equal("r1"))
			Expect(mod.NumOps()).To(Equal(1))
		})

		It("should surface unknown instructions as errors", func() {
			_, err := gen.Generate(program("halt"), 1)
			Expect(generationError(err).Kind).To(Equal(codegen.UnsupportedInstruction))
		})

		It("should reject bitwise operations on floats", func() {
			_, err := gen.Generate(program("create 1.5 r0", "create 2 r1", "or r0 r1 r2"), 3)
			Expect(generationError(err).Kind).To(Equal(codegen.TypeMismatch))
		})

		It("should reject a label defined twice", func() {
			_, err := gen.Generate(program("label @a", "label @a"), 2)
			Expect(generationError(err).Kind).To(Equal(codegen.InvalidOperand))
		})
	})

	Context("arithmetic", func() {
		It("should fold constant operands", func() {
			mod, err := gen.Generate(program("create 3 r0", "create 4 r1", "add r0 r1 r2"), 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(opKinds(mod)).To(Equal([]lir.OpKind{lir.OpStore, lir.OpStore, lir.OpStore}))

			b, ok := gen.Binding("r2")
			Expect(ok).To(BeTrue())
			n, isConst := lir.ConstInt(b.Value)
			Expect(isConst).To(BeTrue())
			Expect(n).To(BeEquivalentTo(7))
		})

		DescribeTable("binary operations",
			func(mnemonic string, x, y string, want int64) {
				_, err := gen.Generate(program("create "+x+" r0", "create "+y+" r1", mnemonic+" r0 r1 r2"), 3)
				Expect(err).NotTo(HaveOccurred())

				b, _ := gen.Binding("r2")
				n, ok := lir.ConstInt(b.Value)
				Expect(ok).To(BeTrue())
				Expect(n).To(Equal(want))
			},
			Entry("sub", "sub", "3", "10", int64(-7)),
			Entry("multiply", "multiply", "6", "7", int64(42)),
			Entry("divide", "divide", "9", "2", int64(4)),
			Entry("or", "or", "12", "3", int64(15)),
			Entry("and", "and", "12", "6", int64(4)),
		)

		It("should promote mixed operands to float", func() {
			_, err := gen.Generate(program("create 2 r0", "create 0.5 r1", "multiply r0 r1 r2"), 3)
			Expect(err).NotTo(HaveOccurred())

			b, _ := gen.Binding("r2")
			f, ok := lir.ConstFloat(b.Value)
			Expect(ok).To(BeTrue())
			Expect(f).To(BeNumerically("==", 1.0))
		})

		It("should not fold a division by zero", func() {
			mod, err := gen.Generate(program("create 1 r0", "create 0 r1", "divide r0 r1 r2"), 3)
			Expect(err).NotTo(HaveOccurred())

			b, _ := gen.Binding("r2")
			_, ok := lir.ConstInt(b.Value)
			Expect(ok).To(BeFalse())
			Expect(mod.Text()).To(ContainSubstring("sdiv i32 1, 0"))
		})

		It("should complement and shift", func() {
			_, err := gen.Generate(program("create 5 r0", "not r0 r1", "shift left r0 2", "create true r3", "not r3 r4"), 5)
			Expect(err).NotTo(HaveOccurred())

			b, _ := gen.Binding("r1")
			Expect(constInt(b.Value)).To(BeEquivalentTo(-6))
			b, _ = gen.Binding("r0")
			Expect(constInt(b.Value)).To(BeEquivalentTo(20))
			b, _ = gen.Binding("r4")
			Expect(lir.IntBits(b.Type)).To(BeEquivalentTo(1))
			Expect(constInt(b.Value)).To(BeEquivalentTo(0))
		})

		It("should cast in place", func() {
			_, err := gen.Generate(program("create 65 r0", "cast char r0"), 2)
			Expect(err).NotTo(HaveOccurred())

			b, _ := gen.Binding("r0")
			Expect(lir.IntBits(b.Type)).To(BeEquivalentTo(8))
			Expect(constInt(b.Value)).To(BeEquivalentTo(65))
		})
	})

	Context("state", func() {
		It("should reset bindings between runs", func() {
			_, err := gen.Generate(program("create 1 r3"), 1)
			Expect(err).NotTo(HaveOccurred())

			_, err = gen.Generate(program("move r3 r4"), 1)
			cerr := generationError(err)
			Expect(cerr.Register).To(Equal("r3"))
			Expect(cerr.Kind).To(Equal(codegen.UninitializedRegister))
		})

		It("should return a finalized module for an empty program", func() {
			mod, err := gen.Generate(program(), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(mod.NumOps()).To(BeZero())
			Expect(mod.Text()).To(ContainSubstring("define i32 @main()"))
			Expect(mod.Text()).To(ContainSubstring("StartASM_module"))
		})

		It("should ignore comments", func() {
			mod, err := gen.Generate(program(`comment "note"`, "create 1 r0"), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(mod.NumOps()).To(Equal(1))
		})
	})

	Context("memory and stacks", func() {
		It("should move values through memory cells", func() {
			mod, err := gen.Generate(program("create 5 r0", "store r0 [16]", "load [16] r1"), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(opKinds(mod)).To(Equal([]lir.OpKind{lir.OpStore, lir.OpStore, lir.OpLoad, lir.OpStore}))
			Expect(mod.Text()).To(ContainSubstring("@mem.16"))

			b, _ := gen.Binding("r1")
			Expect(b.Bound()).To(BeTrue())
		})

		It("should push and pop through the data stack", func() {
			mod, err := gen.Generate(program("create 2.5 r0", "push r0", "pop r1"), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(opKinds(mod)).To(Equal([]lir.OpKind{lir.OpStore, lir.OpPush, lir.OpPop, lir.OpStore}))
			Expect(mod.Text()).To(ContainSubstring("@stack.sp"))
		})
	})

	Context("control flow", func() {
		It("should lower a counted loop", func() {
			mod, err := gen.Generate(program(
				"create 0 r0",
				"create 1 r1",
				"create 10 r2",
				"label @loop",
				"add r0 r1 r0",
				"compare r0 r2",
				"jump less @loop",
				"stop",
			), 8)
			Expect(err).NotTo(HaveOccurred())

			text := mod.Text()
			Expect(text).To(ContainSubstring("L_loop:"))
			Expect(text).To(ContainSubstring("icmp slt i32"))
			Expect(opKinds(mod)).To(ContainElements(lir.OpLabel, lir.OpCompare, lir.OpCondBranch, lir.OpHalt))

			b, _ := gen.Binding("r0")
			_, isConst := lir.ConstInt(b.Value)
			Expect(isConst).To(BeFalse())
		})

		It("should dispatch returns to call sites", func() {
			mod, err := gen.Generate(program("call @f", "stop", "label @f", "return"), 4)
			Expect(err).NotTo(HaveOccurred())

			text := mod.Text()
			Expect(text).To(ContainSubstring("switch i32"))
			Expect(text).To(ContainSubstring("call.0.ret"))
			Expect(text).To(ContainSubstring("@retstack"))
			Expect(opKinds(mod)).To(ContainElements(lir.OpCall, lir.OpReturn))
		})

		It("should reject a register whose type differs between paths into a label", func() {
			_, err := gen.Generate(program(
				"create 1 r0",
				"jump @b",
				"label @a",
				"create 1.5 r0",
				"label @b",
				"output r0",
				"stop",
			), 7)

			cerr := generationError(err)
			Expect(cerr.Kind).To(Equal(codegen.TypeMismatch))
			Expect(cerr.Register).To(Equal("r0"))
			Expect(cerr.Line).To(Equal(5))
			Expect(cerr.Error()).To(ContainSubstring("@b"))
		})

		It("should keep one storage cell per register across blocks", func() {
			mod, err := gen.Generate(program(
				"create 1 r0",
				"compare r0 r0",
				"jump equal @b",
				"create 2 r0",
				"label @b",
				"output r0",
				"stop",
			), 7)
			Expect(err).NotTo(HaveOccurred())

			text := mod.Text()
			Expect(text).To(ContainSubstring("%r0 = alloca i32"))
			Expect(text).To(ContainSubstring("load i32, i32* %r0"))
			Expect(text).NotTo(ContainSubstring("r0.i32"))
		})

		It("should reinterpret memory cells on load", func() {
			mod, err := gen.Generate(program("create 1.5 r0", "store r0 [3]", "load [3] r1", "output r1"), 4)
			Expect(err).NotTo(HaveOccurred())

			text := mod.Text()
			Expect(text).To(ContainSubstring("@mem.3"))
			Expect(text).To(ContainSubstring("bitcast i32"))
			Expect(text).To(ContainSubstring("@startasm_output_f32"))
			b, _ := gen.Binding("r1")
			Expect(lir.IsFloat(b.Type)).To(BeTrue())
		})

		It("should reject a memory cell whose type differs between paths into a label", func() {
			_, err := gen.Generate(program(
				"create 1.5 r0",
				"compare r0 r0",
				"jump equal @x",
				"store r0 [3]",
				"label @x",
				"load [3] r1",
			), 6)

			cerr := generationError(err)
			Expect(cerr.Kind).To(Equal(codegen.TypeMismatch))
			Expect(cerr.Line).To(Equal(5))
			Expect(cerr.Error()).To(ContainSubstring("[3]"))
		})

		It("should reject a subroutine that returns a register with another type", func() {
			_, err := gen.Generate(program(
				"create 1 r0",
				"call @f",
				"stop",
				"label @f",
				"create 1.5 r0",
				"return",
			), 6)

			cerr := generationError(err)
			Expect(cerr.Kind).To(Equal(codegen.TypeMismatch))
			Expect(cerr.Register).To(Equal("r0"))
			Expect(cerr.Line).To(Equal(6))
		})

		It("should check the return stack before popping it", func() {
			mod, err := gen.Generate(program("return"), 1)
			Expect(err).NotTo(HaveOccurred())

			text := mod.Text()
			Expect(text).To(ContainSubstring("retstack.underflow:"))
			Expect(text).To(ContainSubstring(fmt.Sprintf("ret i32 %d", lir.ExitStackUnderflow)))
			guard := strings.Index(text, "icmp slt i32")
			Expect(guard).To(BeNumerically(">=", 0))
			Expect(guard).To(BeNumerically("<", strings.Index(text, "getelementptr")))
		})

		It("should check the data stack before pushing", func() {
			mod, err := gen.Generate(program("create 1 r0", "push r0"), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(mod.Text()).To(ContainSubstring("icmp sge i32"))
			Expect(mod.Text()).To(ContainSubstring("stack.overflow:"))
		})

		It("should trap on jumps to labels that are never placed", func() {
			mod, err := gen.Generate(program("jump @nowhere"), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(mod.Text()).To(ContainSubstring("unreachable"))
		})
	})

	Context("logging", func() {
		It("should not write trace records to the default logger", func() {
			var buf bytes.Buffer
			prev := slog.Default()
			slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
			DeferCleanup(func() { slog.SetDefault(prev) })

			_, err := codegen.New().Generate(program("create 1 r0", "output r0"), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(BeEmpty())
		})

		It("should trace each instruction to a supplied logger", func() {
			var buf bytes.Buffer
			logger := cli.NewLogger(&buf, true, false)

			_, err := codegen.New(codegen.WithLogger(logger.Slog())).Generate(program("create 1 r0", "output r0"), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Count(buf.String(), "lowering instruction")).To(Equal(2))
			Expect(buf.String()).To(ContainSubstring("level=TRACE"))
		})
	})

	Context("runtime calls", func() {
		It("should declare and call the runtime", func() {
			mod, err := gen.Generate(program(
				`print "hi"`,
				"print newline",
				"input int r0",
				"output r0",
				"print 'x'",
			), 5)
			Expect(err).NotTo(HaveOccurred())

			text := mod.Text()
			for _, fn := range []string{"startasm_print_str", "startasm_print_newline", "startasm_input_i32", "startasm_output_i32", "startasm_print_i8"} {
				Expect(text).To(ContainSubstring("@" + fn))
			}
			Expect(opKinds(mod)).To(Equal([]lir.OpKind{
				lir.OpPrint, lir.OpPrint, lir.OpInput, lir.OpStore, lir.OpOutput, lir.OpPrint,
			}))
		})
	})
})
