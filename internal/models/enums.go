package models

type DisposableType string

const (
	PlasticPackaging   DisposableType = "PLASTIC PACKAGING"
	CardboardPackaging DisposableType = "CARDBOARD PACKAGING"
	Paper              DisposableType = "PAPER"
	GlassPackaging     DisposableType = "GLASS PACKAGING"
	MetalPackaging     DisposableType = "METAL PACKAGING"
	Used               DisposableType = "USED"
	Damaged            DisposableType = "DAMAGED"
	Dishes             DisposableType = "DISHES"
	Organic            DisposableType = "ORGANIC"
	NotPackaging       DisposableType = "NOT PACKAGING"
	Medicine           DisposableType = "MEDICINE"
	Toxic              DisposableType = "TOXIC"
	Device             DisposableType = "DEVICE"
	Textile            DisposableType = "TEXTILE"
	BulkyWaste         DisposableType = "BULKY WASTE"
)

type BinType string

const (
	BinRed     BinType = "red"
	BinYellow  BinType = "yellow"
	BinBlue    BinType = "blue"
	BinOrange  BinType = "orange"
	BinCompost BinType = "compost"
)

// defaultBins is the municipal sorting chart used when a customer has no
// bins configuration of their own.
var defaultBins = map[DisposableType]BinType{
	PlasticPackaging:   BinYellow,
	MetalPackaging:     BinYellow,
	CardboardPackaging: BinBlue,
	Paper:              BinBlue,
	GlassPackaging:     BinRed,
	Organic:            BinCompost,
	Dishes:             BinOrange,
	NotPackaging:       BinOrange,
	Used:               BinOrange,
	Damaged:            BinOrange,
}

// DefaultBinFor returns the recommended bin for a disposable type, or false
// for types that need a collection point rather than a household bin
// (medicine, toxic waste, devices, textile, bulky waste).
func DefaultBinFor(t DisposableType) (BinType, bool) {
	bin, ok := defaultBins[t]
	return bin, ok
}

func ValidDisposableType(s string) bool {
	switch DisposableType(s) {
	case PlasticPackaging, CardboardPackaging, Paper, GlassPackaging,
		MetalPackaging, Used, Damaged, Dishes, Organic, NotPackaging,
		Medicine, Toxic, Device, Textile, BulkyWaste:
		return true
	}
	return false
}

func ValidBin(s string) bool {
	switch BinType(s) {
	case BinRed, BinYellow, BinBlue, BinOrange, BinCompost:
		return true
	}
	return false
}

func ValidScanMethod(s string) bool {
	switch ScanMethod(s) {
	case ScanBarcode, ScanAI, ScanAdvanced:
		return true
	}
	return false
}
