package template_test

import (
	"strings"
	"testing"

	"cosmetology-clinic-api/pkg/template"
)

func TestRenderPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		body string
		data map[string]string
		want string
	}{
		{
			"single placeholder",
			"Hello {{patient_name}}!",
			map[string]string{"patient_name": "Anna"},
			"Hello Anna!",
		},
		{
			"multiple placeholders",
			"{{patient_name}} has {{treatment_name}} at {{appointment_time}}",
			map[string]string{
				"patient_name":     "Anna",
				"treatment_name":   "Laser peeling",
				"appointment_time": "10:00",
			},
			"Anna has Laser peeling at 10:00",
		},
		{
			"missing key replaces to empty string",
			"Hello {{patient_name}}, see you!",
			map[string]string{},
			"Hello , see you!",
		},
		{
			"placeholder with inner spaces",
			"Hello {{ patient_name }}!",
			map[string]string{"patient_name": "Anna"},
			"Hello Anna!",
		},
		{
			"repeated placeholder",
			"{{x}} and {{x}}",
			map[string]string{"x": "y"},
			"y and y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := template.Render(tt.body, tt.data)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderLeavesNoLiteralTokens(t *testing.T) {
	got := template.Render("Dear {{patient_name}}", map[string]string{"patient_name": "Anna"})
	if !strings.Contains(got, "Anna") {
		t.Errorf("rendered output %q does not contain substituted value", got)
	}
	if strings.Contains(got, "{{patient_name}}") {
		t.Errorf("rendered output %q still contains literal token", got)
	}
}

func TestRenderConditional(t *testing.T) {
	body := "Before.{{#if pre_treatment_notes}}X{{/if}}After."

	t.Run("empty value drops block", func(t *testing.T) {
		got := template.Render(body, map[string]string{"pre_treatment_notes": ""})
		if strings.Contains(got, "X") {
			t.Errorf("conditional block kept for empty value: %q", got)
		}
		if got != "Before.After." {
			t.Errorf("Render() = %q, want %q", got, "Before.After.")
		}
	})

	t.Run("missing key drops block", func(t *testing.T) {
		got := template.Render(body, map[string]string{})
		if strings.Contains(got, "X") {
			t.Errorf("conditional block kept for missing key: %q", got)
		}
	})

	t.Run("non-empty value keeps inner content", func(t *testing.T) {
		got := template.Render(body, map[string]string{"pre_treatment_notes": "avoid sun"})
		if !strings.Contains(got, "X") {
			t.Errorf("conditional block dropped for non-empty value: %q", got)
		}
	})

	t.Run("inner placeholders render inside kept block", func(t *testing.T) {
		body := "{{#if notes}}Note: {{notes}}{{/if}}"
		got := template.Render(body, map[string]string{"notes": "avoid sun"})
		if got != "Note: avoid sun" {
			t.Errorf("Render() = %q, want %q", got, "Note: avoid sun")
		}
	})

	t.Run("multiline block", func(t *testing.T) {
		body := "{{#if notes}}line one\nline two{{/if}}"
		got := template.Render(body, map[string]string{"notes": "x"})
		if got != "line one\nline two" {
			t.Errorf("Render() = %q", got)
		}
	})
}

func TestRenderAll(t *testing.T) {
	got := template.RenderAll(
		"Visit on {{appointment_date}}",
		"<p>Hello {{patient_name}}</p>",
		"Hello {{patient_name}}",
		map[string]string{"patient_name": "Anna", "appointment_date": "31 May 2025"},
	)

	if got.Subject != "Visit on 31 May 2025" {
		t.Errorf("Subject = %q", got.Subject)
	}
	if got.HTML != "<p>Hello Anna</p>" {
		t.Errorf("HTML = %q", got.HTML)
	}
	if got.Text != "Hello Anna" {
		t.Errorf("Text = %q", got.Text)
	}
}
