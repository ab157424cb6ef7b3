package combiner

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Tree renders the program structure as a tree, one branch per stage with
// the decoded expressions as leaves. Meant for quickly eyeballing how
// intermediate results flow between stages.
func (p *Program) Tree() string {
	root := treeprint.New()
	root.SetValue(fmt.Sprintf("pixel shader program (%d stages)", p.Control.StageCount))

	for _, st := range p.Stages {
		branch := root.AddBranch(fmt.Sprintf("stage %d", st.Index))
		addChannelNodes(branch.AddBranch("rgb"), st.RGB, ChannelRGB)
		addChannelNodes(branch.AddBranch("alpha"), st.Alpha, ChannelAlpha)
	}

	fb := root.AddBranch("final combiner")
	fc := p.Final
	for _, slot := range []struct {
		name string
		in   Input
	}{
		{"A", fc.A}, {"B", fc.B}, {"C", fc.C},
		{"D", fc.D}, {"E", fc.E}, {"F", fc.F},
	} {
		fb.AddNode(slot.name + " = " + slot.in.operand(ChannelRGB))
	}
	if fc.Layout == LayoutXDK {
		fb.AddNode("G = " + finalAlphaOperand(fc.G))
	}

	return root.String()
}

func addChannelNodes(branch treeprint.Tree, op ChannelOp, ch Channel) {
	a, b, c, d := op.Inputs[0], op.Inputs[1], op.Inputs[2], op.Inputs[3]
	branch.AddNode("ab: " + destName(op.Out.AB) + " = " + product(a, b, op.Out.ABDot, ch))
	branch.AddNode("cd: " + destName(op.Out.CD) + " = " + product(c, d, op.Out.CDDot, ch))
	sum := product(a, b, op.Out.ABDot, ch) + " + " + product(c, d, op.Out.CDDot, ch)
	if op.Out.Mux {
		sum = "mux(" + product(a, b, op.Out.ABDot, ch) + ", " + product(c, d, op.Out.CDDot, ch) + ")"
	}
	branch.AddNode("sum: " + destName(op.Out.Sum) + " = " + op.Out.Op.apply(sum))
}
