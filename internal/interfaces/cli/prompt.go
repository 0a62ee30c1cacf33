package cli

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// Choice 下拉选项
type Choice struct {
	Value string
	Label string
}

// Prompter 交互式收集缺失的表单字段
type Prompter interface {
	Text(label string) (string, error)
	Select(label string, choices []Choice) (string, error)
}

// TerminalPrompter 基于 promptui 的终端交互
type TerminalPrompter struct{}

// Text 文本输入，不允许为空
func (TerminalPrompter) Text(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("%s is required", label)
			}
			return nil
		},
	}
	return p.Run()
}

// Select 单选
func (TerminalPrompter) Select(label string, choices []Choice) (string, error) {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	p := promptui.Select{
		Label: label,
		Items: labels,
		Size:  len(labels),
	}
	idx, _, err := p.Run()
	if err != nil {
		return "", err
	}
	return choices[idx].Value, nil
}
