package asm

type opdef struct {
	name  string
	kind  SymbolKind
	value uint16
}

// Base PDP-8 instruction set, loaded before pass 1.
var pdp8Ops = []opdef{
	// memory reference instructions
	{"AND", OpMRI, 0o0000}, {"TAD", OpMRI, 0o1000}, {"ISZ", OpMRI, 0o2000},
	{"DCA", OpMRI, 0o3000}, {"JMS", OpMRI, 0o4000}, {"JMP", OpMRI, 0o5000},

	// operate instructions
	{"NOP", OpOPR, 0o7000}, {"IAC", OpOPR, 0o7001}, {"RAL", OpOPR, 0o7004},
	{"RTL", OpOPR, 0o7006}, {"RAR", OpOPR, 0o7010}, {"RTR", OpOPR, 0o7012},
	{"BSW", OpOPR, 0o7002}, {"CML", OpOPR, 0o7020}, {"CMA", OpOPR, 0o7040},
	{"CIA", OpOPR, 0o7041}, {"CLL", OpOPR, 0o7100}, {"STL", OpOPR, 0o7120},
	{"CLA", OpOPR, 0o7200}, {"GLK", OpOPR, 0o7204}, {"STA", OpOPR, 0o7240},
	{"HLT", OpOPR, 0o7402}, {"OSR", OpOPR, 0o7404}, {"SKP", OpOPR, 0o7410},
	{"SNL", OpOPR, 0o7420}, {"SZL", OpOPR, 0o7430}, {"SZA", OpOPR, 0o7440},
	{"SNA", OpOPR, 0o7450}, {"SMA", OpOPR, 0o7500}, {"SPA", OpOPR, 0o7510},
	{"LAS", OpOPR, 0o7604}, {"MQL", OpOPR, 0o7421}, {"MQA", OpOPR, 0o7501},
	{"SWP", OpOPR, 0o7521}, {"CAM", OpOPR, 0o7621}, {"ACL", OpOPR, 0o7701},

	// memory extension instructions
	{"CDF", OpCXF, 0o6201}, {"CIF", OpCXF, 0o6202}, {"CXF", OpCXF, 0o6203},
	{"RDF", OpIOT, 0o6214}, {"RIF", OpIOT, 0o6224}, {"RIB", OpIOT, 0o6234},
	{"RMF", OpIOT, 0o6244},

	// processor IOT instructions
	{"SKON", OpIOT, 0o6000}, {"ION", OpIOT, 0o6001}, {"IOF", OpIOT, 0o6002},
	{"SRQ", OpIOT, 0o6003}, {"GTF", OpIOT, 0o6004}, {"RTF", OpIOT, 0o6005},
	{"SGT", OpIOT, 0o6006}, {"CAF", OpIOT, 0o6007},
}

// Extra mnemonics from the Intersil data books, loaded by .IM6100:
// the IM6101 PIE, the IM6103 PIO and the IM6102 MEDIC parts.
var intersilOps = []opdef{
	{"READ1", OpPIE, 0o6000}, {"READ2", OpPIE, 0o6010}, {"WRITE1", OpPIE, 0o6001},
	{"WRITE2", OpPIE, 0o6011}, {"SKIP1", OpPIE, 0o6002}, {"SKIP2", OpPIE, 0o6003},
	{"SKIP3", OpPIE, 0o6012}, {"SKIP4", OpPIE, 0o6013}, {"RCRA", OpPIE, 0o6004},
	{"WCRA", OpPIE, 0o6005}, {"WCRB", OpPIE, 0o6015}, {"WVR", OpPIE, 0o6014},
	{"SFLAG1", OpPIE, 0o6006}, {"SFLAG3", OpPIE, 0o6016}, {"CFLAG1", OpPIE, 0o6007},
	{"CFLAG3", OpPIE, 0o6017},

	{"SETPA", OpPIO, 0o6300}, {"CLRPA", OpPIO, 0o6301}, {"WPA", OpPIO, 0o6302},
	{"RPA", OpPIO, 0o6303}, {"SETPB", OpPIO, 0o6304}, {"CLRPB", OpPIO, 0o6305},
	{"WPB", OpPIO, 0o6306}, {"RPB", OpPIO, 0o6307}, {"SETPC", OpPIO, 0o6310},
	{"CLRPC", OpPIO, 0o6311}, {"WPC", OpPIO, 0o6312}, {"RPC", OpPIO, 0o6313},
	{"SKPOR", OpPIO, 0o6314}, {"SKPIR", OpPIO, 0o6315}, {"WSR", OpPIO, 0o6316},
	{"RSR", OpPIO, 0o6317},

	{"LIF", OpIOT, 0o6254},
	{"CLZE", OpIOT, 0o6130}, {"CLSK", OpIOT, 0o6131}, {"CLOE", OpIOT, 0o6132},
	{"CLAB", OpIOT, 0o6133}, {"CLEN", OpIOT, 0o6134}, {"CLSA", OpIOT, 0o6135},
	{"CLBA", OpIOT, 0o6136}, {"CLCA", OpIOT, 0o6137},
	{"LCAR", OpIOT, 0o6205}, {"RCAR", OpIOT, 0o6215}, {"LWCR", OpIOT, 0o6225},
	{"LEAR", OpCXF, 0o6206}, {"REAR", OpIOT, 0o6235}, {"LFSR", OpIOT, 0o6245},
	{"RFSR", OpIOT, 0o6255}, {"WRVR", OpIOT, 0o6275}, {"SKOF", OpIOT, 0o6265},
}

// Extra mnemonics from the Harris 6120 data book, loaded by .HD6120.
var harrisOps = []opdef{
	{"R3L", OpOPR, 0o7014}, {"WSR", OpIOT, 0o6246}, {"GCF", OpIOT, 0o6256},
	{"PR0", OpIOT, 0o6206}, {"PR1", OpIOT, 0o6216}, {"PR2", OpIOT, 0o6226},
	{"PR3", OpIOT, 0o6236}, {"PRS", OpIOT, 0o6000}, {"PGO", OpIOT, 0o6003},
	{"PEX", OpIOT, 0o6004}, {"CPD", OpIOT, 0o6266}, {"SPD", OpIOT, 0o6276},

	// stack instructions
	{"PPC1", OpIOT, 0o6205}, {"PPC2", OpIOT, 0o6245}, {"PAC1", OpIOT, 0o6215},
	{"PAC2", OpIOT, 0o6255}, {"RTN1", OpIOT, 0o6225}, {"RTN2", OpIOT, 0o6265},
	{"POP1", OpIOT, 0o6235}, {"POP2", OpIOT, 0o6275}, {"RSP1", OpIOT, 0o6207},
	{"RSP2", OpIOT, 0o6227}, {"LSP1", OpIOT, 0o6217}, {"LSP2", OpIOT, 0o6237},
}

// seedOps loads (or reloads) a mnemonic set into the symbol table.
func (a *Assembler) seedOps(defs []opdef) {
	for _, def := range defs {
		sym := a.lookup(def.name, true)
		sym.Kind = def.kind
		sym.Value = def.value
	}
}

// seedSymbols loads the base instruction set and the pseudo-ops.
func (a *Assembler) seedSymbols() {
	a.seedOps(pdp8Ops)
	for name, op := range pseudoNames {
		sym := a.lookup(name, true)
		sym.Kind = SymPseudo
		sym.Pseudo = op
	}
}
