package vm

// Encode helpers build raw instruction words, the programmatic
// counterpart of an assembler: tests and embedded programs use them the
// way assembly source would use mnemonics. Register arguments and
// signed offsets are masked to their encoded width, so out-of-range
// values silently truncate.

// EncodeAdd builds ADD DR, SR1, SR2.
func EncodeAdd(dr, sr1, sr2 Word) Word {
	return Word(OpADD)<<12 | (dr&0b111)<<9 | (sr1&0b111)<<6 | sr2&0b111
}

// EncodeAddImm builds ADD DR, SR1, #imm.
func EncodeAddImm(dr, sr1 Word, imm int16) Word {
	return Word(OpADD)<<12 | (dr&0b111)<<9 | (sr1&0b111)<<6 | 1<<5 | Word(imm)&0x1F
}

// EncodeAnd builds AND DR, SR1, SR2.
func EncodeAnd(dr, sr1, sr2 Word) Word {
	return Word(OpAND)<<12 | (dr&0b111)<<9 | (sr1&0b111)<<6 | sr2&0b111
}

// EncodeAndImm builds AND DR, SR1, #imm.
func EncodeAndImm(dr, sr1 Word, imm int16) Word {
	return Word(OpAND)<<12 | (dr&0b111)<<9 | (sr1&0b111)<<6 | 1<<5 | Word(imm)&0x1F
}

// EncodeNot builds NOT DR, SR.
func EncodeNot(dr, sr Word) Word {
	return Word(OpNOT)<<12 | (dr&0b111)<<9 | (sr&0b111)<<6 | 0x3F
}

// EncodeBr builds BRnzp with the given condition mask and PCoffset9.
func EncodeBr(mask Flag, offset int16) Word {
	return Word(OpBR)<<12 | Word(mask&0b111)<<9 | Word(offset)&0x1FF
}

// EncodeJmp builds JMP BaseR.
func EncodeJmp(baser Word) Word {
	return Word(OpJMP)<<12 | (baser&0b111)<<6
}

// EncodeRet builds RET, which is JMP R7.
func EncodeRet() Word {
	return EncodeJmp(R7)
}

// EncodeJsr builds JSR with a PCoffset11.
func EncodeJsr(offset int16) Word {
	return Word(OpJSR)<<12 | 1<<11 | Word(offset)&0x7FF
}

// EncodeJsrr builds JSRR BaseR.
func EncodeJsrr(baser Word) Word {
	return Word(OpJSR)<<12 | (baser&0b111)<<6
}

// EncodeLd builds LD DR with a PCoffset9.
func EncodeLd(dr Word, offset int16) Word {
	return Word(OpLD)<<12 | (dr&0b111)<<9 | Word(offset)&0x1FF
}

// EncodeLdi builds LDI DR with a PCoffset9.
func EncodeLdi(dr Word, offset int16) Word {
	return Word(OpLDI)<<12 | (dr&0b111)<<9 | Word(offset)&0x1FF
}

// EncodeLdr builds LDR DR, BaseR with an offset6.
func EncodeLdr(dr, baser Word, offset int16) Word {
	return Word(OpLDR)<<12 | (dr&0b111)<<9 | (baser&0b111)<<6 | Word(offset)&0x3F
}

// EncodeLea builds LEA DR with a PCoffset9.
func EncodeLea(dr Word, offset int16) Word {
	return Word(OpLEA)<<12 | (dr&0b111)<<9 | Word(offset)&0x1FF
}

// EncodeSt builds ST SR with a PCoffset9.
func EncodeSt(sr Word, offset int16) Word {
	return Word(OpST)<<12 | (sr&0b111)<<9 | Word(offset)&0x1FF
}

// EncodeSti builds STI SR with a PCoffset9.
func EncodeSti(sr Word, offset int16) Word {
	return Word(OpSTI)<<12 | (sr&0b111)<<9 | Word(offset)&0x1FF
}

// EncodeStr builds STR SR, BaseR with an offset6.
func EncodeStr(sr, baser Word, offset int16) Word {
	return Word(OpSTR)<<12 | (sr&0b111)<<9 | (baser&0b111)<<6 | Word(offset)&0x3F
}

// EncodeTrap builds TRAP with the given vector.
func EncodeTrap(vector Word) Word {
	return Word(OpTRAP)<<12 | vector&0xFF
}
