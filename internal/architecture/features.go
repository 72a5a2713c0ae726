package architecture

// FeatureLabels names the scalar features fed to info_input, inner hit first.
var FeatureLabels = []string{
	"inX", "inY", "inZ", "inPhi", "inR", "inDetSeq", "inIsBarrel",
	"inLayer", "inLadder", "inSide", "inDisk", "inPanel", "inModule", "inIsFlipped",
	"inClustX", "inClustY", "inClustSize", "inClustSizeX", "inClustSizeY", "inPixelZero",
	"inAvgCharge", "inOverFlowX", "inOverFlowY", "inSkew", "inIsBig", "inIsBad", "inIsEdge",
	"inAx1", "inAx2", "inSumADC",
	"outX", "outY", "outZ", "outPhi", "outR", "outDetSeq",
	"outIsBarrel", "outLayer", "outLadder", "outSide", "outDisk", "outPanel", "outModule",
	"outIsFlipped", "outClustX", "outClustY", "outClustSize", "outClustSizeX",
	"outClustSizeY", "outPixelZero", "outAvgCharge", "outOverFlowX", "outOverFlowY",
	"outSkew", "outIsBig", "outIsBad", "outIsEdge", "outAx1", "outAx2", "outSumADC",
	"deltaA", "deltaADC", "deltaS", "deltaR", "deltaPhi", "deltaZ", "ZZero",
}

const (
	// DefaultImageSize is the side of the pixel pad cut around each cluster.
	DefaultImageSize = 16
	// DetectorLayers is the number of pixel layers with their own pad channel.
	DetectorLayers = 10
	// DoubletChannels stacks the inner and outer hit pads.
	DoubletChannels = 2 * DetectorLayers
	binaryLabels    = 2
)

// DefaultDims matches the pads and features produced for pixel doublets.
func DefaultDims() Dims {
	return Dims{
		ImageSize: DefaultImageSize,
		Channels:  DoubletChannels,
		InfoSize:  len(FeatureLabels),
		Labels:    binaryLabels,
	}
}
