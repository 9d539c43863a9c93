package template

// guideTemplate is the built-in template for instructional skills
const guideTemplate = `---
name: {{.Name}}
description: {{.Description}}
---

# {{.Name}}

## When to use this skill

Describe the situations where an assistant should reach for this skill.

## Instructions

1. State the first step plainly.
2. State the next step.
3. Call out anything the assistant must never do.

## Examples

Provide one or two short worked examples showing the skill applied well.

## Notes

- Keep instructions imperative and specific.
- Put longer background material under references/ and link it here.
`

// workflowTemplate is the built-in template for workflow skills
const workflowTemplate = `---
name: {{.Name}}
description: {{.Description}}
---

# {{.Name}}

A skill that orchestrates multiple steps in a workflow.

## Workflow steps

### Step 1: Preparation

Validate prerequisites and inputs before doing anything.

### Step 2: Execution

Perform the main operations in order. If a step fails, stop and report
which step failed and why.

### Step 3: Finalization

Clean up intermediate state and summarize what was done.

## Scripts

Helper scripts live under scripts/ and are referenced by the steps above.

## Notes

- Each step should be independently verifiable.
- Prefer failing loudly over continuing with a broken intermediate state.
`

// referenceTemplate is the built-in template for reference-material skills
const referenceTemplate = `---
name: {{.Name}}
description: {{.Description}}
---

# {{.Name}}

## Summary

Summarize the reference material bundled with this skill and when to
consult it.

## Contents

- references/ holds the source documents.
- Keep this summary current when documents are added or removed.

## Usage

Point the assistant at the relevant document rather than restating its
contents here.
`
