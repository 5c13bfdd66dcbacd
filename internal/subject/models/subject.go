// Package models holds the subject taxonomy appeals are classified under.
// Subjects form a two-level hierarchy: main subjects at the root, subitems
// pointing at their parent.
package models

import (
	"strings"

	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
)

// Subject is one node of the classification taxonomy.
type Subject struct {
	ID       id.SubjectID  `json:"id"`
	Name     string        `json:"name"`
	ParentID *id.SubjectID `json:"parent_id,omitempty"`
	Active   bool          `json:"active"`
}

// NewSubject validates and constructs a subject.
func NewSubject(subjectID id.SubjectID, name string, parentID *id.SubjectID) (*Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "subject name is required")
	}
	return &Subject{
		ID:       subjectID,
		Name:     name,
		ParentID: parentID,
		Active:   true,
	}, nil
}

// IsRoot reports whether the subject is a main subject.
func (s *Subject) IsRoot() bool {
	return s.ParentID == nil
}

// SubjectLink ties a resource to one subject of its classification. Exactly
// one link per resource carries IsPrimary.
type SubjectLink struct {
	ResourceID id.ResourceID `json:"resource_id"`
	SubjectID  id.SubjectID  `json:"subject_id"`
	IsPrimary  bool          `json:"is_primary"`
}

// TreeNode is one annotated node of the rendered taxonomy tree.
type TreeNode struct {
	Subject       Subject     `json:"subject"`
	Children      []*TreeNode `json:"children,omitempty"`
	ChildCount    int         `json:"child_count"`
	ResourceCount int         `json:"resource_count"`
}

// BuildTree assembles the taxonomy tree from the active subjects in one
// grouping pass: the parent-to-children index is built once and walked once,
// so the cost stays linear in the number of subjects. Deactivated subjects
// are invisible here just as they are to classification; deactivating a main
// subject hides its whole branch.
func BuildTree(subjects []*Subject, resourceCounts map[id.SubjectID]int) []*TreeNode {
	children := make(map[id.SubjectID][]*Subject)
	var roots []*Subject
	for _, subject := range subjects {
		if !subject.Active {
			continue
		}
		if subject.ParentID == nil {
			roots = append(roots, subject)
			continue
		}
		children[*subject.ParentID] = append(children[*subject.ParentID], subject)
	}

	var build func(subject *Subject) *TreeNode
	build = func(subject *Subject) *TreeNode {
		node := &TreeNode{
			Subject:       *subject,
			ChildCount:    len(children[subject.ID]),
			ResourceCount: resourceCounts[subject.ID],
		}
		for _, child := range children[subject.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	out := make([]*TreeNode, 0, len(roots))
	for _, root := range roots {
		out = append(out, build(root))
	}
	return out
}
