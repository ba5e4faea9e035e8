package mos6502

type addrMode uint8

const (
	amImplied addrMode = iota
	amAccumulator
	amImmediate
	amZeroPage
	amZeroPageX
	amZeroPageY
	amAbsolute
	amAbsoluteX
	amAbsoluteY
	amIndirect
	amIndirectX
	amIndirectY
	amRelative
)

// execFunc implements an instruction's effect. It returns any extra
// cycles beyond the opcode's base count and the generic page-cross
// bonus (used by branches for "taken" and "taken across a page").
type execFunc func(c *CPU, mode addrMode, addr uint16) uint32

type opcode struct {
	mnemonic string
	mode     addrMode
	cycles   uint8
	exec     execFunc
}

var opcodeTable [256]opcode

type opEntry struct {
	code     uint8
	mnemonic string
	mode     addrMode
	cycles   uint8
	exec     execFunc
}

func init() {
	for _, e := range opcodeEntries {
		opcodeTable[e.code] = opcode{mnemonic: e.mnemonic, mode: e.mode, cycles: e.cycles, exec: e.exec}
	}
}

var opcodeEntries = []opEntry{
	// ADC
	{0x69, "ADC", amImmediate, 2, execADC}, {0x65, "ADC", amZeroPage, 3, execADC},
	{0x75, "ADC", amZeroPageX, 4, execADC}, {0x6D, "ADC", amAbsolute, 4, execADC},
	{0x7D, "ADC", amAbsoluteX, 4, execADC}, {0x79, "ADC", amAbsoluteY, 4, execADC},
	{0x61, "ADC", amIndirectX, 6, execADC}, {0x71, "ADC", amIndirectY, 5, execADC},

	// AND
	{0x29, "AND", amImmediate, 2, execAND}, {0x25, "AND", amZeroPage, 3, execAND},
	{0x35, "AND", amZeroPageX, 4, execAND}, {0x2D, "AND", amAbsolute, 4, execAND},
	{0x3D, "AND", amAbsoluteX, 4, execAND}, {0x39, "AND", amAbsoluteY, 4, execAND},
	{0x21, "AND", amIndirectX, 6, execAND}, {0x31, "AND", amIndirectY, 5, execAND},

	// ASL
	{0x0A, "ASL", amAccumulator, 2, execASL}, {0x06, "ASL", amZeroPage, 5, execASL},
	{0x16, "ASL", amZeroPageX, 6, execASL}, {0x0E, "ASL", amAbsolute, 6, execASL},
	{0x1E, "ASL", amAbsoluteX, 7, execASL},

	// Branches
	{0x90, "BCC", amRelative, 2, execBranch(FlagC, false)},
	{0xB0, "BCS", amRelative, 2, execBranch(FlagC, true)},
	{0xF0, "BEQ", amRelative, 2, execBranch(FlagZ, true)},
	{0x30, "BMI", amRelative, 2, execBranch(FlagN, true)},
	{0xD0, "BNE", amRelative, 2, execBranch(FlagZ, false)},
	{0x10, "BPL", amRelative, 2, execBranch(FlagN, false)},
	{0x50, "BVC", amRelative, 2, execBranch(FlagV, false)},
	{0x70, "BVS", amRelative, 2, execBranch(FlagV, true)},

	{0x24, "BIT", amZeroPage, 3, execBIT}, {0x2C, "BIT", amAbsolute, 4, execBIT},

	{0x00, "BRK", amImplied, 7, execBRK},

	{0x18, "CLC", amImplied, 2, execFlagClear(FlagC)},
	{0xD8, "CLD", amImplied, 2, execFlagClear(FlagD)},
	{0x58, "CLI", amImplied, 2, execFlagClear(FlagI)},
	{0xB8, "CLV", amImplied, 2, execFlagClear(FlagV)},
	{0x38, "SEC", amImplied, 2, execFlagSet(FlagC)},
	{0xF8, "SED", amImplied, 2, execFlagSet(FlagD)},
	{0x78, "SEI", amImplied, 2, execFlagSet(FlagI)},

	// CMP/CPX/CPY
	{0xC9, "CMP", amImmediate, 2, execCompare(regA)}, {0xC5, "CMP", amZeroPage, 3, execCompare(regA)},
	{0xD5, "CMP", amZeroPageX, 4, execCompare(regA)}, {0xCD, "CMP", amAbsolute, 4, execCompare(regA)},
	{0xDD, "CMP", amAbsoluteX, 4, execCompare(regA)}, {0xD9, "CMP", amAbsoluteY, 4, execCompare(regA)},
	{0xC1, "CMP", amIndirectX, 6, execCompare(regA)}, {0xD1, "CMP", amIndirectY, 5, execCompare(regA)},
	{0xE0, "CPX", amImmediate, 2, execCompare(regX)}, {0xE4, "CPX", amZeroPage, 3, execCompare(regX)},
	{0xEC, "CPX", amAbsolute, 4, execCompare(regX)},
	{0xC0, "CPY", amImmediate, 2, execCompare(regY)}, {0xC4, "CPY", amZeroPage, 3, execCompare(regY)},
	{0xCC, "CPY", amAbsolute, 4, execCompare(regY)},

	// DEC/INC memory
	{0xC6, "DEC", amZeroPage, 5, execDEC}, {0xD6, "DEC", amZeroPageX, 6, execDEC},
	{0xCE, "DEC", amAbsolute, 6, execDEC}, {0xDE, "DEC", amAbsoluteX, 7, execDEC},
	{0xE6, "INC", amZeroPage, 5, execINC}, {0xF6, "INC", amZeroPageX, 6, execINC},
	{0xEE, "INC", amAbsolute, 6, execINC}, {0xFE, "INC", amAbsoluteX, 7, execINC},

	{0xCA, "DEX", amImplied, 2, execDEX}, {0x88, "DEY", amImplied, 2, execDEY},
	{0xE8, "INX", amImplied, 2, execINX}, {0xC8, "INY", amImplied, 2, execINY},

	// EOR
	{0x49, "EOR", amImmediate, 2, execEOR}, {0x45, "EOR", amZeroPage, 3, execEOR},
	{0x55, "EOR", amZeroPageX, 4, execEOR}, {0x4D, "EOR", amAbsolute, 4, execEOR},
	{0x5D, "EOR", amAbsoluteX, 4, execEOR}, {0x59, "EOR", amAbsoluteY, 4, execEOR},
	{0x41, "EOR", amIndirectX, 6, execEOR}, {0x51, "EOR", amIndirectY, 5, execEOR},

	// JMP/JSR/RTS/RTI
	{0x4C, "JMP", amAbsolute, 3, execJMP}, {0x6C, "JMP", amIndirect, 5, execJMP},
	{0x20, "JSR", amAbsolute, 6, execJSR},
	{0x60, "RTS", amImplied, 6, execRTS},
	{0x40, "RTI", amImplied, 6, execRTI},

	// Loads
	{0xA9, "LDA", amImmediate, 2, execLoad(regA)}, {0xA5, "LDA", amZeroPage, 3, execLoad(regA)},
	{0xB5, "LDA", amZeroPageX, 4, execLoad(regA)}, {0xAD, "LDA", amAbsolute, 4, execLoad(regA)},
	{0xBD, "LDA", amAbsoluteX, 4, execLoad(regA)}, {0xB9, "LDA", amAbsoluteY, 4, execLoad(regA)},
	{0xA1, "LDA", amIndirectX, 6, execLoad(regA)}, {0xB1, "LDA", amIndirectY, 5, execLoad(regA)},
	{0xA2, "LDX", amImmediate, 2, execLoad(regX)}, {0xA6, "LDX", amZeroPage, 3, execLoad(regX)},
	{0xB6, "LDX", amZeroPageY, 4, execLoad(regX)}, {0xAE, "LDX", amAbsolute, 4, execLoad(regX)},
	{0xBE, "LDX", amAbsoluteY, 4, execLoad(regX)},
	{0xA0, "LDY", amImmediate, 2, execLoad(regY)}, {0xA4, "LDY", amZeroPage, 3, execLoad(regY)},
	{0xB4, "LDY", amZeroPageX, 4, execLoad(regY)}, {0xAC, "LDY", amAbsolute, 4, execLoad(regY)},
	{0xBC, "LDY", amAbsoluteX, 4, execLoad(regY)},

	// LSR
	{0x4A, "LSR", amAccumulator, 2, execLSR}, {0x46, "LSR", amZeroPage, 5, execLSR},
	{0x56, "LSR", amZeroPageX, 6, execLSR}, {0x4E, "LSR", amAbsolute, 6, execLSR},
	{0x5E, "LSR", amAbsoluteX, 7, execLSR},

	{0xEA, "NOP", amImplied, 2, execNOP},

	// ORA
	{0x09, "ORA", amImmediate, 2, execORA}, {0x05, "ORA", amZeroPage, 3, execORA},
	{0x15, "ORA", amZeroPageX, 4, execORA}, {0x0D, "ORA", amAbsolute, 4, execORA},
	{0x1D, "ORA", amAbsoluteX, 4, execORA}, {0x19, "ORA", amAbsoluteY, 4, execORA},
	{0x01, "ORA", amIndirectX, 6, execORA}, {0x11, "ORA", amIndirectY, 5, execORA},

	// Stack
	{0x48, "PHA", amImplied, 3, execPHA}, {0x08, "PHP", amImplied, 3, execPHP},
	{0x68, "PLA", amImplied, 4, execPLA}, {0x28, "PLP", amImplied, 4, execPLP},

	// ROL/ROR
	{0x2A, "ROL", amAccumulator, 2, execROL}, {0x26, "ROL", amZeroPage, 5, execROL},
	{0x36, "ROL", amZeroPageX, 6, execROL}, {0x2E, "ROL", amAbsolute, 6, execROL},
	{0x3E, "ROL", amAbsoluteX, 7, execROL},
	{0x6A, "ROR", amAccumulator, 2, execROR}, {0x66, "ROR", amZeroPage, 5, execROR},
	{0x76, "ROR", amZeroPageX, 6, execROR}, {0x6E, "ROR", amAbsolute, 6, execROR},
	{0x7E, "ROR", amAbsoluteX, 7, execROR},

	// SBC
	{0xE9, "SBC", amImmediate, 2, execSBC}, {0xE5, "SBC", amZeroPage, 3, execSBC},
	{0xF5, "SBC", amZeroPageX, 4, execSBC}, {0xED, "SBC", amAbsolute, 4, execSBC},
	{0xFD, "SBC", amAbsoluteX, 4, execSBC}, {0xF9, "SBC", amAbsoluteY, 4, execSBC},
	{0xE1, "SBC", amIndirectX, 6, execSBC}, {0xF1, "SBC", amIndirectY, 5, execSBC},

	// Stores
	{0x85, "STA", amZeroPage, 3, execStore(regA)}, {0x95, "STA", amZeroPageX, 4, execStore(regA)},
	{0x8D, "STA", amAbsolute, 4, execStore(regA)}, {0x9D, "STA", amAbsoluteX, 5, execStore(regA)},
	{0x99, "STA", amAbsoluteY, 5, execStore(regA)}, {0x81, "STA", amIndirectX, 6, execStore(regA)},
	{0x91, "STA", amIndirectY, 6, execStore(regA)},
	{0x86, "STX", amZeroPage, 3, execStore(regX)}, {0x96, "STX", amZeroPageY, 4, execStore(regX)},
	{0x8E, "STX", amAbsolute, 4, execStore(regX)},
	{0x84, "STY", amZeroPage, 3, execStore(regY)}, {0x94, "STY", amZeroPageX, 4, execStore(regY)},
	{0x8C, "STY", amAbsolute, 4, execStore(regY)},

	// Register transfers
	{0xAA, "TAX", amImplied, 2, execTransfer(regA, regX)},
	{0xA8, "TAY", amImplied, 2, execTransfer(regA, regY)},
	{0xBA, "TSX", amImplied, 2, execTSX},
	{0x8A, "TXA", amImplied, 2, execTransfer(regX, regA)},
	{0x9A, "TXS", amImplied, 2, execTXS},
	{0x98, "TYA", amImplied, 2, execTransfer(regY, regA)},

	// --- Required illegal opcodes ---

	// SLO family: ASL memory, then ORA with A.
	{0x07, "SLO", amZeroPage, 5, execSLO}, {0x17, "SLO", amZeroPageX, 6, execSLO},
	{0x0F, "SLO", amAbsolute, 6, execSLO}, {0x1F, "SLO", amAbsoluteX, 7, execSLO},
	{0x1B, "SLO", amAbsoluteY, 7, execSLO}, {0x03, "SLO", amIndirectX, 8, execSLO},
	{0x13, "SLO", amIndirectY, 8, execSLO},

	// Unofficial NOPs, grouped by the operand length they consume.
	{0x1A, "NOP", amImplied, 2, execNOP}, {0x3A, "NOP", amImplied, 2, execNOP},
	{0x5A, "NOP", amImplied, 2, execNOP}, {0x7A, "NOP", amImplied, 2, execNOP},
	{0xDA, "NOP", amImplied, 2, execNOP}, {0xFA, "NOP", amImplied, 2, execNOP},
	{0x80, "NOP", amImmediate, 2, execNOP}, {0x82, "NOP", amImmediate, 2, execNOP},
	{0x89, "NOP", amImmediate, 2, execNOP}, {0xC2, "NOP", amImmediate, 2, execNOP},
	{0xE2, "NOP", amImmediate, 2, execNOP},
	{0x04, "NOP", amZeroPage, 3, execNOP}, {0x44, "NOP", amZeroPage, 3, execNOP},
	{0x64, "NOP", amZeroPage, 3, execNOP},
	{0x14, "NOP", amZeroPageX, 4, execNOP}, {0x34, "NOP", amZeroPageX, 4, execNOP},
	{0x54, "NOP", amZeroPageX, 4, execNOP}, {0x74, "NOP", amZeroPageX, 4, execNOP},
	{0xD4, "NOP", amZeroPageX, 4, execNOP}, {0xF4, "NOP", amZeroPageX, 4, execNOP},
	{0x0C, "NOP", amAbsolute, 4, execNOP},
	{0x1C, "NOP", amAbsoluteX, 4, execNOP}, {0x3C, "NOP", amAbsoluteX, 4, execNOP},
	{0x5C, "NOP", amAbsoluteX, 4, execNOP}, {0x7C, "NOP", amAbsoluteX, 4, execNOP},
	{0xDC, "NOP", amAbsoluteX, 4, execNOP}, {0xFC, "NOP", amAbsoluteX, 4, execNOP},

	// KIL/JAM: halts the CPU.
	{0x02, "KIL", amImplied, 2, execKIL}, {0x12, "KIL", amImplied, 2, execKIL},
	{0x22, "KIL", amImplied, 2, execKIL}, {0x32, "KIL", amImplied, 2, execKIL},
	{0x42, "KIL", amImplied, 2, execKIL}, {0x52, "KIL", amImplied, 2, execKIL},
	{0x62, "KIL", amImplied, 2, execKIL}, {0x72, "KIL", amImplied, 2, execKIL},
	{0x92, "KIL", amImplied, 2, execKIL}, {0xB2, "KIL", amImplied, 2, execKIL},
	{0xD2, "KIL", amImplied, 2, execKIL}, {0xF2, "KIL", amImplied, 2, execKIL},
}
