package render

import (
	"fmt"
	"html/template"
	"text/template/parse"
)

const partialFunc = "partial"

// maxDepth limits nested partial calls, which catches indirect cycles at run time.
const maxDepth = 32

// checkPartials traverses the parse trees of tpl and validates the partial calls with a literal name.
// A partial without a name, or naming the file itself, is an error reported with its position in body.
func (r *Renderer) checkPartials(tpl *template.Template, file, body string) error {
	for _, t := range tpl.Templates() {
		if t.Tree == nil || t.Tree.Root == nil {
			continue
		}
		refs, err := processNode(t.Tree.Root)
		if err == nil {
			for _, ref := range refs {
				if r.fileName(trimPath(ref.name)) == file {
					err = posErr{pos: ref.pos, message: fmt.Sprintf("cyclic reference to '%s'", ref.name)}
					break
				}
			}
		}
		if err, ok := err.(posErr); ok {
			line, col := pos(body, err.pos)
			return fmt.Errorf("%s:%d:%d: %s: %w", file, line, col, partialFunc, err)
		}
	}

	return nil
}

// processNode returns the partial calls with a literal name found under node.
func processNode(node parse.Node) (refs []partialRef, err error) {
	// add only appends if there are no errors
	add := func(r []partialRef, err1 error) {
		if err1 != nil && err == nil {
			err = err1
		}
		if err == nil {
			refs = append(refs, r...)
		}
	}

	switch n := node.(type) {
	case *parse.ActionNode:
		if n.Pipe == nil || len(n.Pipe.Cmds) == 0 {
			break
		}
		fn, name, nargs := getActionArgs(n.Pipe.Cmds[0])
		if fn != partialFunc {
			break
		}
		if nargs == 0 {
			return refs, posErr{pos: int(n.Pos), message: "path to partial file is not specified"}
		}
		if name != "" {
			refs = append(refs, partialRef{name: name, pos: int(n.Pos)})
		}
	case *parse.ListNode:
		if n == nil {
			break
		}
		for _, c := range n.Nodes {
			add(processNode(c))
		}
	case *parse.IfNode:
		add(processNode(n.List))
		add(processNode(n.ElseList))
	case *parse.RangeNode:
		add(processNode(n.List))
		add(processNode(n.ElseList))
	case *parse.WithNode:
		add(processNode(n.List))
		add(processNode(n.ElseList))
	}

	return refs, err
}

// getActionArgs returns the function name of cmd, its literal first argument and the argument count.
func getActionArgs(cmd *parse.CommandNode) (fn, name string, nargs int) {
	if len(cmd.Args) > 0 {
		if i, ok := cmd.Args[0].(*parse.IdentifierNode); ok {
			fn = i.Ident
		}
		nargs = len(cmd.Args) - 1
	}
	if len(cmd.Args) > 1 {
		if s, ok := cmd.Args[1].(*parse.StringNode); ok {
			name = s.Text
		}
	}
	return
}

type partialRef struct {
	name string
	pos  int
}

// posErr tracks the position in the template file when a check fails.
type posErr struct {
	pos     int
	message string
}

func (p posErr) Error() string {
	return p.message
}

func pos(body string, pos int) (line int, col int) {
	line = 1
	col = 1
	for i, char := range body {
		if i >= pos {
			break
		}

		if char == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
