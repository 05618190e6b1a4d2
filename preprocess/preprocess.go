// Package preprocess consumes a token scanner to completion, building the
// linear instruction stream the execution engine runs: it records label
// definitions, picks an entry point, and rewrites every branch/call's label
// operand into a signed relative displacement.
package preprocess

import (
	"github.com/TaichiLi/asm-vm/scanner"
	"github.com/TaichiLi/asm-vm/token"
	"github.com/TaichiLi/asm-vm/vmerror"
)

// entryNames lists the label spellings that can set the program's initial
// EIP, in source order of precedence irrelevance: whichever is declared
// last among them wins.
var entryNames = map[string]bool{
	"main": true, "start": true, "_main": true, "_start": true,
}

// Program is the result of preprocessing: a flat token stream ready for
// execution, the label table that produced it, and the chosen entry index.
type Program struct {
	Stream []token.Token
	Labels map[string]int
	Entry  int
}

// Run scans input to completion and returns the resolved program, or the
// first fatal error encountered.
func Run(input, filename string) (*Program, *vmerror.Error) {
	stream, labels, entry, err := buildStream(input, filename)
	if err != nil {
		return nil, err
	}
	if err := resolveBranches(stream, labels); err != nil {
		return nil, err
	}
	return &Program{Stream: stream, Labels: labels, Entry: entry}, nil
}

// buildStream is the first linear pass: it drains the scanner, recording
// every (LABEL, COLON) pair in the label table at the pair's stream index,
// and copies every token, those pairs included, into the instruction
// stream unchanged.
func buildStream(input, filename string) ([]token.Token, map[string]int, int, *vmerror.Error) {
	sc := scanner.New(input, filename)

	var raw []token.Token
	for {
		tok := sc.NextToken()
		if err := sc.Err(); err != nil {
			return nil, nil, 0, err
		}
		if tok.Kind == token.END_OF_FILE {
			break
		}
		raw = append(raw, tok)
	}

	stream := make([]token.Token, 0, len(raw))
	labels := make(map[string]int)
	entry := 0
	haveEntry := false

	for j := 0; j < len(raw); j++ {
		cur := raw[j]
		if cur.Kind == token.LABEL && j+1 < len(raw) && raw[j+1].Variant == token.COLON {
			idx := len(stream)
			labels[cur.Spelling] = idx
			if entryNames[cur.Spelling] {
				entry = idx
				haveEntry = true
			}
			stream = append(stream, cur, raw[j+1])
			j++
			continue
		}
		stream = append(stream, cur)
	}

	if !haveEntry {
		entry = 0
	}
	return stream, labels, entry, nil
}

// resolveBranches is the second linear pass: every branch/call mnemonic
// must be followed by a LABEL token naming a defined label; that token is
// rewritten in place into the signed displacement the dispatch loop adds
// to EIP once it has consumed the operand.
func resolveBranches(stream []token.Token, labels map[string]int) *vmerror.Error {
	for i, tok := range stream {
		if !tok.IsBranchOrCall() {
			continue
		}
		if i+1 >= len(stream) || stream[i+1].Kind != token.LABEL {
			return vmerror.New(tok.Pos, vmerror.Preprocess,
				"%s must be followed by a label", tok.Variant)
		}
		operand := stream[i+1]
		target, ok := labels[operand.Spelling]
		if !ok {
			return vmerror.New(operand.Pos, vmerror.Preprocess,
				"undefined label %q", operand.Spelling)
		}
		disp := int64(target) - int64(i+1) - 1
		stream[i+1] = token.Token{
			Kind:       token.IMMEDIATE_DATA,
			Variant:    token.INTEGER_LITERAL,
			Pos:        operand.Pos,
			Spelling:   operand.Spelling,
			Value:      uint32(int32(disp)),
			Precedence: -1,
		}
	}
	return nil
}
