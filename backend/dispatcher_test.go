package backend_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Urethramancer/stackasm/backend"
	"github.com/Urethramancer/stackasm/codegen"
)

var sample = []byte{0x01, 0x05, 0x00, 0x00, 0x00, 0x01, 0x03, 0x00, 0x00, 0x00, 0x02, 0x03, 0x04}

var _ = Describe("Dispatcher", func() {
	var (
		mockCtrl    *gomock.Controller
		interp      *MockInterpreter
		toolchain   *MockToolchain
		scratchRoot string
		outputDir   string
		states      []backend.State
		dispatcher  *backend.Dispatcher
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		interp = NewMockInterpreter(mockCtrl)
		toolchain = NewMockToolchain(mockCtrl)

		scratchRoot = GinkgoT().TempDir()
		outputDir = filepath.Join(GinkgoT().TempDir(), "target")
		states = nil

		dispatcher = backend.DispatcherBuilder{}.
			WithInterpreter(interp).
			WithToolchain(toolchain).
			WithScratchDir(scratchRoot).
			WithOutputDir(outputDir).
			WithModuleDir("/path/to/stackasm").
			WithObserver(func(_, to backend.State) {
				states = append(states, to)
			}).
			Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	scratchEntries := func() []os.DirEntry {
		entries, err := os.ReadDir(scratchRoot)
		Expect(err).NotTo(HaveOccurred())
		return entries
	}

	It("should start idle", func() {
		Expect(dispatcher.State()).To(Equal(backend.Idle))
	})

	Context("in run mode", func() {
		It("should hand the code to the interpreter", func() {
			interp.EXPECT().Execute(sample).Return(nil)

			res, err := dispatcher.Dispatch(sample, backend.ModeRun, "prog.asm")

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Mode).To(Equal(backend.ModeRun))
			Expect(res.Output).To(BeEmpty())
			Expect(states).To(Equal([]backend.State{
				backend.Parsed, backend.Interpreting, backend.Idle,
			}))
			Expect(dispatcher.State()).To(Equal(backend.Idle))
			Expect(scratchEntries()).To(BeEmpty())
		})

		It("should return interpreter errors", func() {
			boom := errors.New("boom")
			interp.EXPECT().Execute(gomock.Any()).Return(boom)

			_, err := dispatcher.Dispatch(sample, backend.ModeRun, "prog.asm")

			Expect(err).To(MatchError(boom))
			Expect(backend.ExitCode(err)).To(Equal(1))
			Expect(dispatcher.State()).To(Equal(backend.Idle))
		})
	})

	Context("in compile mode", func() {
		It("should build in a scratch directory and remove it", func() {
			var buildDir string
			toolchain.EXPECT().
				Build(gomock.Any(), gomock.Any()).
				DoAndReturn(func(dir, output string) error {
					buildDir = dir
					Expect(filepath.Dir(dir)).To(Equal(scratchRoot))

					src, err := os.ReadFile(filepath.Join(dir, "main.go"))
					Expect(err).NotTo(HaveOccurred())
					Expect(string(src)).To(ContainSubstring("vm.ExecuteBytecodePtr"))

					mod, err := os.ReadFile(filepath.Join(dir, "go.mod"))
					Expect(err).NotTo(HaveOccurred())
					Expect(string(mod)).To(ContainSubstring("=> /path/to/stackasm"))

					Expect(filepath.IsAbs(output)).To(BeTrue())
					return nil
				})

			res, err := dispatcher.Dispatch(sample, backend.ModeCompile, "examples/prog.asm")

			Expect(err).NotTo(HaveOccurred())
			Expect(backend.ExitCode(err)).To(Equal(0))
			Expect(filepath.Base(res.Output)).To(HavePrefix("prog"))
			Expect(filepath.Dir(res.Output)).To(Equal(outputDir))
			Expect(outputDir).To(BeADirectory())
			Expect(buildDir).NotTo(BeAnExistingFile())
			Expect(scratchEntries()).To(BeEmpty())
			Expect(states).To(Equal([]backend.State{
				backend.Parsed, backend.Rendering, backend.Invoking,
				backend.Succeeded, backend.Idle,
			}))
		})

		It("should remove the scratch directory when the build fails", func() {
			var buildDir string
			toolchain.EXPECT().
				Build(gomock.Any(), gomock.Any()).
				DoAndReturn(func(dir, _ string) error {
					buildDir = dir
					return &backend.ToolchainError{
						Command: "go build",
						Stderr:  "main.go:1: syntax error",
						Err:     errors.New("exit status 2"),
					}
				})

			_, err := dispatcher.Dispatch(sample, backend.ModeCompile, "prog.asm")

			var te *backend.ToolchainError
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Error()).To(ContainSubstring("syntax error"))
			Expect(backend.ExitCode(err)).To(Equal(1))
			Expect(buildDir).NotTo(BeEmpty())
			Expect(buildDir).NotTo(BeAnExistingFile())
			Expect(scratchEntries()).To(BeEmpty())
			Expect(states).To(Equal([]backend.State{
				backend.Parsed, backend.Rendering, backend.Invoking,
				backend.Failed, backend.Idle,
			}))
		})

		It("should use a fresh directory for every invocation", func() {
			var dirs []string
			toolchain.EXPECT().
				Build(gomock.Any(), gomock.Any()).
				DoAndReturn(func(dir, _ string) error {
					dirs = append(dirs, dir)
					return nil
				}).
				Times(2)

			_, err := dispatcher.Dispatch(sample, backend.ModeCompile, "a.asm")
			Expect(err).NotTo(HaveOccurred())
			_, err = dispatcher.Dispatch(sample, backend.ModeCompile, "b.asm")
			Expect(err).NotTo(HaveOccurred())

			Expect(dirs).To(HaveLen(2))
			Expect(dirs[0]).NotTo(Equal(dirs[1]))
		})

		It("should pass the slice linkage through", func() {
			dispatcher = backend.DispatcherBuilder{}.
				WithInterpreter(interp).
				WithToolchain(toolchain).
				WithGenerator(codegen.New(codegen.LinkageSlice)).
				WithScratchDir(scratchRoot).
				WithOutputDir(outputDir).
				WithModuleDir("/path/to/stackasm").
				Build()

			toolchain.EXPECT().
				Build(gomock.Any(), gomock.Any()).
				DoAndReturn(func(dir, _ string) error {
					src, err := os.ReadFile(filepath.Join(dir, "main.go"))
					Expect(err).NotTo(HaveOccurred())
					Expect(string(src)).To(ContainSubstring("vm.ExecuteBytecode(instructions)"))
					return nil
				})

			_, err := dispatcher.Dispatch(sample, backend.ModeCompile, "prog.asm")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should name the output after an empty source name", func() {
			toolchain.EXPECT().Build(gomock.Any(), gomock.Any()).Return(nil)

			res, err := dispatcher.Dispatch(nil, backend.ModeCompile, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Base(res.Output)).To(HavePrefix("program"))
		})
	})

	It("should reject an unknown mode without leaving idle", func() {
		_, err := dispatcher.Dispatch(sample, backend.Mode(42), "prog.asm")

		Expect(errors.Is(err, backend.ErrInvalidMode)).To(BeTrue())
		Expect(states).To(BeEmpty())
		Expect(dispatcher.State()).To(Equal(backend.Idle))
	})
})

var _ = Describe("Toolchain integration", func() {
	It("should build and run a real executable", func() {
		if os.Getenv("STACKASM_TOOLCHAIN_TEST") == "" {
			Skip("set STACKASM_TOOLCHAIN_TEST=1 to invoke the go toolchain")
		}

		moduleDir, err := backend.FindModuleDir(".")
		Expect(err).NotTo(HaveOccurred())

		dispatcher := backend.DispatcherBuilder{}.
			WithModuleDir(moduleDir).
			WithOutputDir(GinkgoT().TempDir()).
			WithScratchDir(GinkgoT().TempDir()).
			Build()

		res, err := dispatcher.Dispatch(sample, backend.ModeCompile, "sum.asm")
		Expect(err).NotTo(HaveOccurred())

		out, err := exec.Command(res.Output).Output()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(Equal("[STD_OUT]: 8\n"))
	})
})
