package id3v2

// v22to23 maps every standard ID3v2.2 three-letter frame ID to its
// ID3v2.3/2.4 four-letter equivalent (a fixed 63-entry lookup table).
// Frame IDs with no entry are preserved as opaque unknown frames
// when round-trip is required.
var v22to23 = map[string]string{
	"BUF": "RBUF", "CNT": "PCNT", "COM": "COMM", "CRA": "AENC", "CRM": "",
	"ETC": "ETCO", "EQU": "EQUA", "GEO": "GEOB", "IPL": "IPLS", "LNK": "LINK",
	"MCI": "MCDI", "MLL": "MLLT", "PIC": "APIC", "POP": "POPM", "REV": "RVRB",
	"RVA": "RVAD", "SLT": "SYLT", "STC": "SYTC",
	"TAL": "TALB", "TBP": "TBPM", "TCM": "TCOM", "TCO": "TCON", "TCR": "TCOP",
	"TDA": "TDAT", "TDY": "TDLY", "TEN": "TENC", "TFT": "TFLT", "TIM": "TIME",
	"TKE": "TKEY", "TLA": "TLAN", "TLE": "TLEN", "TMT": "TMED", "TOA": "TOPE",
	"TOF": "TOFN", "TOL": "TOLY", "TOR": "TORY", "TOT": "TOAL", "TP1": "TPE1",
	"TP2": "TPE2", "TP3": "TPE3", "TP4": "TPE4", "TPA": "TPOS", "TPB": "TPUB",
	"TRC": "TSRC", "TRD": "TRDA", "TRK": "TRCK", "TSI": "TSIZ", "TSS": "TSSE",
	"TT1": "TIT1", "TT2": "TIT2", "TT3": "TIT3", "TXT": "TEXT", "TXX": "TXXX",
	"TYE": "TYER",
	"UFI": "UFID", "ULT": "USLT", "WAF": "WOAF", "WAR": "WOAR", "WAS": "WOAS",
	"WCM": "WCOM", "WCP": "WCOP", "WPB": "WPUB", "WXX": "WXXX",
}

// mapFrameID resolves a v2.2 three-letter frame ID to its v2.3/2.4
// equivalent, returning ok=false when no mapping exists.
func mapFrameID(id string) (string, bool) {
	mapped, ok := v22to23[id]
	return mapped, ok && mapped != ""
}

var v23to22 = func() map[string]string {
	m := make(map[string]string, len(v22to23))
	for k, v := range v22to23 {
		if v != "" {
			m[v] = k
		}
	}
	return m
}()

// demapFrameID resolves a v2.3/2.4 four-letter frame ID back to its v2.2
// three-letter form for writing a v2.2 tag. IDs with no entry (TXXX, WXXX,
// and anything introduced after v2.2) pass through truncated to 3 bytes as
// a best-effort fallback.
func demapFrameID(id string) string {
	if short, ok := v23to22[id]; ok {
		return short
	}
	if len(id) >= 3 {
		return id[:3]
	}
	return id
}
