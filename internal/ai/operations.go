package ai

import (
	"context"
	"fmt"
	"time"
)

// Operation type tags carried on responses so the client UI can route them.
const (
	TypeAnalysis      = "comprehensive_analysis"
	TypeExplanation   = "explanation"
	TypeOptimization  = "smart_optimization"
	TypeDocumentation = "documentation"
	TypeConversion    = "conversion"
	TypeBugFix        = "bug_fix"
)

const analyzePrompt = `
Analyze this %[1]s code comprehensively:

CODE:
` + "```%[1]s\n%[2]s\n```" + `

Provide analysis in this format:

## Code Quality Score: [1-10]/10

## Syntax Check:
- No syntax errors OR [List syntax errors found]

## Time Complexity Analysis:
- Current complexity: O(...)
- Performance rating: [Excellent/Good/Fair/Poor]
- Bottlenecks: [identify slow parts]

## Issues Found:
- [List bugs, logic errors, or inefficiencies]

## Optimization Opportunities:
- [Suggest specific algorithmic improvements]
- [Recommend better data structures]

## Best Practices:
- [Code style and maintainability suggestions]

Keep analysis concise but thorough.
`

const explainPrompt = `
Explain this %[1]s code in simple terms:

CODE:
` + "```%[1]s\n%[2]s\n```" + `

## What This Code Does:
[Brief overview]

## Step-by-Step Breakdown:
[Go through the code line by line]

## Time Complexity:
- This algorithm runs in: O(...)
- Performance: [Fast/Medium/Slow] for large inputs

## Key Concepts Used:
[Explain programming concepts]

## Real-World Use Cases:
[Where this code might be used]

Use simple language and provide examples.
`

const optimizePrompt = `
As an expert code optimizer, analyze this %[1]s code and provide intelligent optimization:

CODE:
` + "```%[1]s\n%[2]s\n```" + `

Please follow this decision process:

1. **First, check for SYNTAX ERRORS**:
   - If there are syntax errors, fix them and return corrected code
   - Priority: Fix syntax before optimization

2. **Then, analyze TIME COMPLEXITY**:
   - Identify the current time complexity (e.g., O(n), O(n^2), O(n^3))
   - If complexity is O(n^2) or worse, provide optimized version
   - If complexity is already optimal (O(1), O(log n), O(n)), suggest minor improvements

3. **Response Format**:
DECISION: [SYNTAX_FIX | COMPLEXITY_OPTIMIZATION | MINOR_IMPROVEMENTS]

CURRENT_COMPLEXITY: O(...)

OPTIMIZED_CODE:
` + "```%[1]s\n[Your optimized/corrected code here]\n```" + `

CHANGES_MADE:
- [List specific changes]
- [Explain why each change improves the code]

PERFORMANCE_IMPACT:
- Time complexity: [before] -> [after]
- Expected performance gain: [X%%] faster
- Memory usage: [better/same/slightly more]

Focus on:
- Fixing syntax errors first (highest priority)
- Reducing time complexity for slow algorithms
- Using efficient data structures (hashmaps, sets, etc.)
- Eliminating nested loops where possible
- Improving algorithmic approach
`

// Analyze asks the model for a comprehensive review of the code.
func (c *Client) Analyze(ctx context.Context, code, lang string) (*Response, error) {
	text, err := c.generate(ctx, fmt.Sprintf(analyzePrompt, lang, code))
	if err != nil {
		return nil, err
	}
	return newResponse(TypeAnalysis, text, lang), nil
}

// Explain asks the model for a plain-language walkthrough of the code.
func (c *Client) Explain(ctx context.Context, code, lang string) (*Response, error) {
	text, err := c.generate(ctx, fmt.Sprintf(explainPrompt, lang, code))
	if err != nil {
		return nil, err
	}
	return newResponse(TypeExplanation, text, lang), nil
}

// Optimize asks the model to fix syntax first, then improve complexity.
func (c *Client) Optimize(ctx context.Context, code, lang string) (*Response, error) {
	text, err := c.generate(ctx, fmt.Sprintf(optimizePrompt, lang, code))
	if err != nil {
		return nil, err
	}
	return newResponse(TypeOptimization, text, lang), nil
}

// Document asks the model to generate documentation for the code.
func (c *Client) Document(ctx context.Context, code, lang string) (*Response, error) {
	prompt := fmt.Sprintf(
		"Generate comprehensive documentation for this %s code with proper format and examples.\n\n```%s\n%s\n```",
		lang, lang, code)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return newResponse(TypeDocumentation, text, lang), nil
}

// Convert asks the model to translate the code into another language.
func (c *Client) Convert(ctx context.Context, code, fromLang, toLang string) (*Response, error) {
	prompt := fmt.Sprintf(
		"Convert this %s code to %s, maintaining functionality and following best practices.\n\n```%s\n%s\n```",
		fromLang, toLang, fromLang, code)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	resp := newResponse(TypeConversion, text, "")
	resp.FromLanguage = fromLang
	resp.ToLanguage = toLang
	return resp, nil
}

// FixBugs asks the model to debug the code, optionally guided by an observed
// error message.
func (c *Client) FixBugs(ctx context.Context, code, lang, errorMessage string) (*Response, error) {
	prompt := fmt.Sprintf("Debug and fix this %s code.", lang)
	if errorMessage != "" {
		prompt += fmt.Sprintf(" Error: %s", errorMessage)
	}
	prompt += fmt.Sprintf(" Provide corrected code with explanation.\n\n```%s\n%s\n```", lang, code)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return newResponse(TypeBugFix, text, lang), nil
}

func newResponse(opType, text, lang string) *Response {
	return &Response{
		Type:      opType,
		Text:      text,
		Language:  lang,
		Timestamp: time.Now().UTC(),
	}
}

var _ Gateway = (*Client)(nil)
