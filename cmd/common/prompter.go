package common

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/txcat/internal/models"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgYellow, color.Bold)
	hintColor   = color.New(color.Faint)
	promptColor = color.New(color.FgCyan)
)

// TerminalPrompter asks the user on a terminal how to categorize a transaction.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter reads answers from in and writes prompts to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// PromptCategoryName shows the transaction and asks for its category.
func (p *TerminalPrompter) PromptCategoryName(ctx context.Context, tx *models.Transaction, categories []string) (string, error) {
	headerColor.Fprintln(p.out, "Transaction not categorized:")
	fmt.Fprint(p.out, tx.Render(""))
	if len(categories) > 0 {
		hintColor.Fprintf(p.out, "Known categories: %s\n", strings.Join(categories, ", "))
	}
	promptColor.Fprint(p.out, "Category name: ")
	return p.readLine(ctx)
}

// PromptPattern asks for the keywords that identify the transaction.
func (p *TerminalPrompter) PromptPattern(ctx context.Context, tx *models.Transaction, name string, existing bool) (string, error) {
	if existing {
		promptColor.Fprintf(p.out, "Keywords to add to %s (separate with |): ", name)
	} else {
		promptColor.Fprintf(p.out, "Keywords for new category %s (separate with |): ", name)
	}
	return p.readLine(ctx)
}

func (p *TerminalPrompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
