package ast

// Trivia represents non-semantic content (comments) that must be preserved
// during formatting. Comments are collected by the lexer as a separate
// position-ordered stream and attached to the tree by the trivia package.

// Comment is a single comment token. Text includes the leading '#'.
type Comment struct {
	Pos  Position
	Text string
}

func (c *Comment) Position() Position { return c.Pos }

// CommentStmt is a comment that occupies its own line. It appears as a
// sibling of ordinary statements within a block.
type CommentStmt struct {
	Comment *Comment
}

func (s *CommentStmt) Position() Position { return s.Comment.Pos }
func (*CommentStmt) stmtNode()            {}

// Commented wraps a statement that has a comment on its own source line,
// rendered inline after the statement.
type Commented struct {
	Stmt     Stmt
	Trailing *Comment
}

func (s *Commented) Position() Position { return s.Stmt.Position() }
func (*Commented) stmtNode()            {}

// BranchComments wraps a branching statement whose header line or terminal
// else line carries a comment. Head is the comment on the if/elif, while, or
// for header itself; Else is the comment on the "else:" line, present only
// when the statement has a genuine terminal else clause.
type BranchComments struct {
	Stmt Stmt // an *If, *While, or *For
	Head *Comment
	Else *Comment
}

func (s *BranchComments) Position() Position { return s.Stmt.Position() }
func (*BranchComments) stmtNode()            {}

// Unwrap returns the underlying statement beneath any comment wrappers.
func Unwrap(s Stmt) Stmt {
	for {
		switch w := s.(type) {
		case *Commented:
			s = w.Stmt
		case *BranchComments:
			s = w.Stmt
		default:
			return s
		}
	}
}
