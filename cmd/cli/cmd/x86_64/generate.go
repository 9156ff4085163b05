package x86_64

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keurnel/assembler/architecture/x86_64"
	"github.com/keurnel/assembler/internal/asm"
	"github.com/keurnel/assembler/internal/assembler_context"
	"github.com/keurnel/assembler/internal/codegen"
)

var (
	instructionsPath string
	groupsPath       string
	outPath          string
	packageName      string
)

var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a typed Go encoding API from an instruction-set document",
	Long:  `Loads an x86-64 instruction-set document and its instruction-groups document and writes the generated Go source to the output path.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGenerate(); err != nil {
			cmd.PrintErrln("Error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	GenerateCmd.Flags().StringVar(&instructionsPath, "instructions", "", "path to the instruction-set JSON document (required)")
	GenerateCmd.Flags().StringVar(&groupsPath, "groups", "", "path to the instruction-groups JSON document (required)")
	GenerateCmd.Flags().StringVar(&outPath, "out", "", "output path for the generated Go source (required)")
	GenerateCmd.Flags().StringVar(&packageName, "package", "x86_64gen", "package name for the generated source")

	GenerateCmd.MarkFlagRequired("instructions")
	GenerateCmd.MarkFlagRequired("groups")
	GenerateCmd.MarkFlagRequired("out")
}

func runGenerate() error {
	instructionsData, err := readDocument(instructionsPath)
	if err != nil {
		return fmt.Errorf("reading instructions document: %w", err)
	}

	groupsData, err := readDocument(groupsPath)
	if err != nil {
		return fmt.Errorf("reading groups document: %w", err)
	}

	arch, err := x86_64.New(instructionsData, groupsData)
	if err != nil {
		return fmt.Errorf("loading architecture: %w", err)
	}
	ctx := &assembler_context.AssemblerContext{Architecture: arch}

	mnemonics := make([]*asm.Mnemonic, 0, len(ctx.Architecture.Mnemonics()))
	for _, m := range ctx.Architecture.Mnemonics() {
		mnemonics = append(mnemonics, m)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	w := codegen.NewWriter(out)
	codegen.Generate(w, packageName, mnemonics)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing generated source: %w", err)
	}

	return nil
}

func readDocument(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}
	return os.ReadFile(path)
}
