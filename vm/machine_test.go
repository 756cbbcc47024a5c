package vm_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Urethramancer/stackasm/bytecode"
	"github.com/Urethramancer/stackasm/vm"
)

func program(list ...bytecode.Instruction) []byte {
	return bytecode.Encode(list)
}

func load(v int32) bytecode.Instruction {
	return bytecode.Instruction{Op: bytecode.OpLoad, Arg: v}
}

var (
	opAdd   = bytecode.Instruction{Op: bytecode.OpAdd}
	opPrint = bytecode.Instruction{Op: bytecode.OpPrint}
	opEnd   = bytecode.Instruction{Op: bytecode.OpEnd}
)

var _ = Describe("Machine", func() {
	var (
		m      *vm.Machine
		out    []string
		errOut []string
	)

	BeforeEach(func() {
		out = nil
		errOut = nil
		m = vm.New(
			vm.OnPrint(func(m *vm.Machine, ptr, length uint32) {
				s, err := m.ReadString(ptr, length)
				Expect(err).NotTo(HaveOccurred())
				out = append(out, s)
			}),
			vm.OnError(func(m *vm.Machine, ptr, length uint32) {
				s, err := m.ReadString(ptr, length)
				Expect(err).NotTo(HaveOccurred())
				errOut = append(errOut, s)
			}),
		)
	})

	Context("Arithmetic", func() {
		It("should add the two values on top of the stack", func() {
			err := m.Execute(program(load(5), load(3), opAdd, opPrint, opEnd))
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]string{"[STD_OUT]: 8"}))
			Expect(m.Stack()).To(Equal([]int32{8}))
		})

		It("should keep a running total across several additions", func() {
			err := m.Execute(program(
				load(10), load(10), opAdd, opPrint,
				load(30), opAdd, opPrint,
				load(50), opAdd, opPrint,
			))
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]string{
				"[STD_OUT]: 20",
				"[STD_OUT]: 50",
				"[STD_OUT]: 100",
			}))
		})

		It("should wrap on overflow", func() {
			err := m.Execute(program(load(2147483647), load(1), opAdd))
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Stack()).To(Equal([]int32{-2147483648}))
		})

		It("should peek, not pop, on PRINT", func() {
			Expect(m.Execute(program(load(4), opPrint, opPrint))).To(Succeed())
			Expect(out).To(HaveLen(2))
			Expect(m.Stack()).To(Equal([]int32{4}))
		})
	})

	Context("Control", func() {
		It("should halt at END", func() {
			Expect(m.Execute(program(load(1), opEnd, opPrint))).To(Succeed())
			Expect(out).To(BeEmpty())
			Expect(m.Running).To(BeFalse())
		})

		It("should run empty code", func() {
			Expect(m.Execute(nil)).To(Succeed())
			Expect(out).To(BeEmpty())
		})

		It("should reset the stack between runs", func() {
			Expect(m.Execute(program(load(1), load(2)))).To(Succeed())
			Expect(m.Execute(program(load(3)))).To(Succeed())
			Expect(m.Stack()).To(Equal([]int32{3}))
		})
	})

	Context("Errors", func() {
		It("should report an unknown byte code", func() {
			err := m.Execute([]byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x7f})

			var re *vm.RuntimeError
			Expect(errors.As(err, &re)).To(BeTrue())
			Expect(re.Offset).To(Equal(uint32(5)))
			Expect(errors.Is(err, vm.ErrUnknownOpcode)).To(BeTrue())
			Expect(errOut).To(Equal([]string{
				"Error during VM execution: [VmError]: unknown byte code",
			}))
		})

		It("should report a truncated operand", func() {
			err := m.Execute([]byte{0x01, 0x05, 0x00})
			Expect(errors.Is(err, vm.ErrUnexpectedEOF)).To(BeTrue())
			Expect(errOut).To(HaveLen(1))
		})

		It("should report insufficient arguments", func() {
			Expect(errors.Is(m.Execute(program(load(1), opAdd)), vm.ErrStackUnderflow)).To(BeTrue())
			Expect(errors.Is(m.Execute(program(opPrint)), vm.ErrStackUnderflow)).To(BeTrue())
			Expect(errOut).To(HaveLen(2))
		})

		It("should stop at the stack limit", func() {
			small := vm.New(vm.StackSize(2))
			err := small.Execute(program(load(1), load(2), load(3)))
			Expect(errors.Is(err, vm.ErrStackOverflow)).To(BeTrue())
		})

		It("should not run code past the memory limit", func() {
			tiny := vm.New(vm.MemoryLimit(16))
			Expect(tiny.Memory()).To(HaveLen(16))
			err := tiny.Execute(make([]byte, 64))
			Expect(errors.Is(err, vm.ErrOutOfMemory)).To(BeTrue())
		})

		It("should run programs larger than the initial memory", func() {
			list := []bytecode.Instruction{load(0)}
			for i := 0; i < 12000; i++ {
				list = append(list, load(1), opAdd)
			}
			code := program(append(list, opPrint, opEnd)...)
			Expect(len(code)).To(BeNumerically(">", vm.DefaultMemorySize))

			Expect(m.Execute(code)).To(Succeed())
			Expect(out).To(Equal([]string{"[STD_OUT]: 12000"}))
		})
	})

	Context("Linear memory", func() {
		It("should run code placed with Alloc", func() {
			code := program(load(7), opPrint)
			ptr, err := m.Alloc(uint32(len(code)))
			Expect(err).NotTo(HaveOccurred())
			Expect(ptr).NotTo(BeZero())
			copy(m.Memory()[ptr:], code)

			Expect(m.ExecuteAt(ptr, uint32(len(code)))).To(Succeed())
			Expect(out).To(Equal([]string{"[STD_OUT]: 7"}))
			m.Free(ptr, uint32(len(code)))
		})

		It("should reuse freed blocks", func() {
			a, err := m.Alloc(10)
			Expect(err).NotTo(HaveOccurred())
			m.Free(a, 10)
			b, err := m.Alloc(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(a))
		})

		It("should reject spans outside memory", func() {
			err := m.ExecuteAt(uint32(len(m.Memory())-2), 10)
			Expect(errors.Is(err, vm.ErrOutOfBounds)).To(BeTrue())
			_, err = m.ReadString(uint32(len(m.Memory())), 1)
			Expect(errors.Is(err, vm.ErrOutOfBounds)).To(BeTrue())
		})

		It("should reject invalid UTF-8 spans", func() {
			ptr, err := m.WriteBytes([]byte{0xff, 0xfe})
			Expect(err).NotTo(HaveOccurred())
			_, err = m.ReadString(ptr, 2)
			Expect(errors.Is(err, vm.ErrInvalidText)).To(BeTrue())
		})
	})

	Context("WriterHook", func() {
		It("should write each span on its own line", func() {
			var buf bytes.Buffer
			w := vm.New(vm.OnPrint(vm.WriterHook(&buf)))
			Expect(w.Execute(program(load(1), opPrint, load(2), opAdd, opPrint))).To(Succeed())
			Expect(buf.String()).To(Equal("[STD_OUT]: 1\n[STD_OUT]: 3\n"))
		})
	})
})
