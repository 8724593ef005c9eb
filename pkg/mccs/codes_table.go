package mccs

// MCCS 2.2a VCP codes

// VCPCode identifies a Virtual Control Panel feature
type VCPCode uint8

const (
	// Preset Operations
	CodePage                                VCPCode = 0x00
	RestoreFactoryDefaults                  VCPCode = 0x04
	RestoreFactoryLuminanceContrastDefaults VCPCode = 0x05
	RestoreFactoryGeometryDefaults          VCPCode = 0x06
	RestoreFactoryColorDefaults             VCPCode = 0x08
	RestoreFactoryTVDefaults                VCPCode = 0x0A
	Settings                                VCPCode = 0xB0

	// Image Adjustment
	UserColorTemperatureIncrement   VCPCode = 0x0B
	UserColorTemperature            VCPCode = 0x0C
	Clock                           VCPCode = 0x0E
	Luminance                       VCPCode = 0x10
	FleshToneEnhancement            VCPCode = 0x11
	Contrast                        VCPCode = 0x12
	BacklightControl                VCPCode = 0x13
	SelectColorPreset               VCPCode = 0x14
	VideoGainRed                    VCPCode = 0x16
	UserColorVisionCompensation     VCPCode = 0x17
	VideoGainGreen                  VCPCode = 0x18
	VideoGainBlue                   VCPCode = 0x1A
	Focus                           VCPCode = 0x1C
	AutoSetup                       VCPCode = 0x1E
	AutoColorSetup                  VCPCode = 0x1F
	GrayScaleExpansion              VCPCode = 0x2E
	ClockPhase                      VCPCode = 0x3E
	HorizontalMoire                 VCPCode = 0x56
	VerticalMoire                   VCPCode = 0x58
	SixAxisSaturationControlRed     VCPCode = 0x59
	SixAxisSaturationControlYellow  VCPCode = 0x5A
	SixAxisSaturationControlGreen   VCPCode = 0x5B
	SixAxisSaturationControlCyan    VCPCode = 0x5C
	SixAxisSaturationControlBlue    VCPCode = 0x5D
	SixAxisSaturationControlMagenta VCPCode = 0x5E
	BacklightLevelWhite             VCPCode = 0x6B
	VideoBlackLevelRed              VCPCode = 0x6C
	BacklightLevelRed               VCPCode = 0x6D
	VideoBlackLevelGreen            VCPCode = 0x6E
	BacklightLevelGreen             VCPCode = 0x6F
	VideoBlackLevelBlue             VCPCode = 0x70
	BacklightLevelBlue              VCPCode = 0x71
	Gamma                           VCPCode = 0x72
	LUTSize                         VCPCode = 0x73
	SinglePointLUTOperation         VCPCode = 0x74
	BlockLUTOperation               VCPCode = 0x75
	AdjustZoom                      VCPCode = 0x7C
	Sharpness                       VCPCode = 0x87
	VelocityScanModulation          VCPCode = 0x88
	ColorSaturation                 VCPCode = 0x8A
	TVSharpness                     VCPCode = 0x8C
	TVContrast                      VCPCode = 0x8E
	Hue                             VCPCode = 0x90
	TVBlackLevel                    VCPCode = 0x92
	WindowBackground                VCPCode = 0x9A
	SixAxisHueControlRed            VCPCode = 0x9B
	SixAxisHueControlYellow         VCPCode = 0x9C
	SixAxisHueControlGreen          VCPCode = 0x9D
	SixAxisHueControlCyan           VCPCode = 0x9E
	SixAxisHueControlBlue           VCPCode = 0x9F
	SixAxisHueControlMagenta        VCPCode = 0xA0
	AutoSetupOnOff                  VCPCode = 0xA2
	WindowMaskControl               VCPCode = 0xA4
	WindowSelect                    VCPCode = 0xA5
	WindowSize                      VCPCode = 0xA6
	WindowTransparency              VCPCode = 0xA7
	ScreenOrientation               VCPCode = 0xAA
	StereoVideoMode                 VCPCode = 0xD4
	DisplayApplication              VCPCode = 0xDC

	// Display Control
	HorizontalFrequency  VCPCode = 0xAC
	VerticalFrequency    VCPCode = 0xAE
	SourceTimingMode     VCPCode = 0xB4
	SourceColorCoding    VCPCode = 0xB5
	DisplayUsageTime     VCPCode = 0xC0
	DisplayControllerID  VCPCode = 0xC8
	DisplayFirmwareLevel VCPCode = 0xC9
	OSDButtonControl     VCPCode = 0xCA
	OSDLanguage          VCPCode = 0xCC
	PowerMode            VCPCode = 0xD6
	ImageMode            VCPCode = 0xDB
	VCPVersion           VCPCode = 0xDF

	// Geometry
	HorizontalPosition          VCPCode = 0x20
	HorizontalSize              VCPCode = 0x22
	HorizontalPincushion        VCPCode = 0x24
	HorizontalPincushionBalance VCPCode = 0x26
	HorizontalConvergenceRB     VCPCode = 0x28
	HorizontalConvergenceMG     VCPCode = 0x29
	HorizontalLinearity         VCPCode = 0x2A
	HorizontalLinearityBalance  VCPCode = 0x2C
	VerticalPosition            VCPCode = 0x30
	VerticalSize                VCPCode = 0x32
	VerticalPincushion          VCPCode = 0x34
	VerticalPincushionBalance   VCPCode = 0x36
	VerticalConvergenceRB       VCPCode = 0x38
	VerticalConvergenceMG       VCPCode = 0x39
	VerticalLinearity           VCPCode = 0x3A
	VerticalLinearityBalance    VCPCode = 0x3C
	HorizontalParallelogram     VCPCode = 0x40
	VerticalParallelogram       VCPCode = 0x41
	HorizontalKeystone          VCPCode = 0x42
	VerticalKeystone            VCPCode = 0x43
	Rotation                    VCPCode = 0x44
	TopCornerFlare              VCPCode = 0x46
	TopCornerHook               VCPCode = 0x48
	BottomCornerFlare           VCPCode = 0x4A
	BottomCornerHook            VCPCode = 0x4C
	HorizontalMirror            VCPCode = 0x82
	VerticalMirror              VCPCode = 0x84
	DisplayScaling              VCPCode = 0x86
	WindowPositionTopLeftX      VCPCode = 0x95
	WindowPositionTopLeftY      VCPCode = 0x96
	WindowPositionBottomRightX  VCPCode = 0x97
	WindowPositionBottomRightY  VCPCode = 0x98
	ScanMode                    VCPCode = 0xDA

	// Miscellaneous
	Degauss                            VCPCode = 0x01
	NewControlValue                    VCPCode = 0x02
	SoftControls                       VCPCode = 0x03
	ActiveControl                      VCPCode = 0x52
	PerformancePreservation            VCPCode = 0x54
	InputSelect                        VCPCode = 0x60
	AmbientLightSensor                 VCPCode = 0x66
	RemoteProcedureCall                VCPCode = 0x76
	DisplayIdentificationDataOperation VCPCode = 0x78
	TVChannelUpDown                    VCPCode = 0x8B
	FlatPanelSubPixelLayout            VCPCode = 0xB2
	DisplayTechnologyType              VCPCode = 0xB6
	DisplayDescriptorLength            VCPCode = 0xC2
	TransmitDisplayDescriptor          VCPCode = 0xC3
	EnableDisplayOfDisplayDescriptor   VCPCode = 0xC4
	ApplicationEnableKey               VCPCode = 0xC6
	DisplayEnableKey                   VCPCode = 0xC7
	StatusIndicator                    VCPCode = 0xCD
	AuxiliaryDisplaySize               VCPCode = 0xCE
	AuxiliaryDisplayData               VCPCode = 0xCF
	OutputSelect                       VCPCode = 0xD0
	AssetTag                           VCPCode = 0xD2
	AuxiliaryPowerOutput               VCPCode = 0xD7
	ScratchPad                         VCPCode = 0xDE

	// Audio
	AudioSpeakerVolume        VCPCode = 0x62
	SpeakerSelect             VCPCode = 0x63
	AudioMicrophoneVolume     VCPCode = 0x64
	AudioJackConnectionStatus VCPCode = 0x65
	AudioMuteScreenBlank      VCPCode = 0x8D
	AudioTreble               VCPCode = 0x8F
	AudioBass                 VCPCode = 0x91
	AudioBalanceLR            VCPCode = 0x93
	AudioProcessorMode        VCPCode = 0x94

	// DPVL
	MonitorStatus     VCPCode = 0xB7
	PacketCount       VCPCode = 0xB8
	MonitorXOrigin    VCPCode = 0xB9
	MonitorYOrigin    VCPCode = 0xBA
	HeaderErrorCount  VCPCode = 0xBB
	BodyCRCErrorCount VCPCode = 0xBC
	ClientID          VCPCode = 0xBD
	LinkControl       VCPCode = 0xBE
)

// Brightness is the common name of Luminance
const Brightness = Luminance

type codeInfo struct {
	name     string
	function Function
}

var codeTable = map[VCPCode]codeInfo{
	CodePage:                                {"Code Page", Table},
	RestoreFactoryDefaults:                  {"Restore Factory Defaults", NonContinuous},
	RestoreFactoryLuminanceContrastDefaults: {"Restore Factory Luminance/Contrast Defaults", NonContinuous},
	RestoreFactoryGeometryDefaults:          {"Restore Factory Geometry Defaults", NonContinuous},
	RestoreFactoryColorDefaults:             {"Restore Factory Color Defaults", NonContinuous},
	RestoreFactoryTVDefaults:                {"Restore Factory TV Defaults", NonContinuous},
	Settings:                                {"Settings", NonContinuous},
	UserColorTemperatureIncrement:           {"User Color Temperature Increment", NonContinuous},
	UserColorTemperature:                    {"User Color Temperature", Continuous},
	Clock:                                   {"Clock", Continuous},
	Luminance:                               {"Luminance", Continuous},
	FleshToneEnhancement:                    {"Flesh Tone Enhancement", NonContinuous},
	Contrast:                                {"Contrast", Continuous},
	BacklightControl:                        {"Backlight Control", Continuous},
	SelectColorPreset:                       {"Select Color Preset", NonContinuous},
	VideoGainRed:                            {"Video Gain (Drive): Red", Continuous},
	UserColorVisionCompensation:             {"User Color Vision Compensation", Continuous},
	VideoGainGreen:                          {"Video Gain (Drive): Green", Continuous},
	VideoGainBlue:                           {"Video Gain (Drive): Blue", Continuous},
	Focus:                                   {"Focus", Continuous},
	AutoSetup:                               {"Auto Setup", NonContinuous},
	AutoColorSetup:                          {"Auto Color Setup", NonContinuous},
	GrayScaleExpansion:                      {"Gray Scale Expansion", NonContinuous},
	ClockPhase:                              {"Clock Phase", Continuous},
	HorizontalMoire:                         {"Horizontal Moire", Continuous},
	VerticalMoire:                           {"Vertical Moire", Continuous},
	SixAxisSaturationControlRed:             {"Six Axis Saturation Control: Red", Continuous},
	SixAxisSaturationControlYellow:          {"Six Axis Saturation Control: Yellow", Continuous},
	SixAxisSaturationControlGreen:           {"Six Axis Saturation Control: Green", Continuous},
	SixAxisSaturationControlCyan:            {"Six Axis Saturation Control: Cyan", Continuous},
	SixAxisSaturationControlBlue:            {"Six Axis Saturation Control: Blue", Continuous},
	SixAxisSaturationControlMagenta:         {"Six Axis Saturation Control: Magenta", Continuous},
	BacklightLevelWhite:                     {"Backlight Level: White", Continuous},
	VideoBlackLevelRed:                      {"Video Black Level: Red", Continuous},
	BacklightLevelRed:                       {"Backlight Level: Red", Continuous},
	VideoBlackLevelGreen:                    {"Video Black Level: Green", Continuous},
	BacklightLevelGreen:                     {"Backlight Level: Green", Continuous},
	VideoBlackLevelBlue:                     {"Video Black Level: Blue", Continuous},
	BacklightLevelBlue:                      {"Backlight Level: Blue", Continuous},
	Gamma:                                   {"Gamma", NonContinuous},
	LUTSize:                                 {"LUT Size", Table},
	SinglePointLUTOperation:                 {"Single Point LUT Operation", Table},
	BlockLUTOperation:                       {"Block LUT Operation", Table},
	AdjustZoom:                              {"Adjust Zoom", Continuous},
	Sharpness:                               {"Sharpness", Continuous},
	VelocityScanModulation:                  {"Velocity Scan Modulation", Continuous},
	ColorSaturation:                         {"Color Saturation", Continuous},
	TVSharpness:                             {"TV Sharpness", Continuous},
	TVContrast:                              {"TV Contrast", Continuous},
	Hue:                                     {"Hue", Continuous},
	TVBlackLevel:                            {"TV Black Level", Continuous},
	WindowBackground:                        {"Window Background", Continuous},
	SixAxisHueControlRed:                    {"Six Axis Hue Control: Red", Continuous},
	SixAxisHueControlYellow:                 {"Six Axis Hue Control: Yellow", Continuous},
	SixAxisHueControlGreen:                  {"Six Axis Hue Control: Green", Continuous},
	SixAxisHueControlCyan:                   {"Six Axis Hue Control: Cyan", Continuous},
	SixAxisHueControlBlue:                   {"Six Axis Hue Control: Blue", Continuous},
	SixAxisHueControlMagenta:                {"Six Axis Hue Control: Magenta", Continuous},
	AutoSetupOnOff:                          {"Auto Setup On/Off", NonContinuous},
	WindowMaskControl:                       {"Window Mask Control", Table},
	WindowSelect:                            {"Window Select", Continuous},
	WindowSize:                              {"Window Size", Continuous},
	WindowTransparency:                      {"Window Transparency", Continuous},
	ScreenOrientation:                       {"Screen Orientation", NonContinuous},
	StereoVideoMode:                         {"Stereo Video Mode", NonContinuous},
	DisplayApplication:                      {"Display Application", NonContinuous},
	HorizontalFrequency:                     {"Horizontal Frequency", Continuous},
	VerticalFrequency:                       {"Vertical Frequency", Continuous},
	SourceTimingMode:                        {"Source Timing Mode", Table},
	SourceColorCoding:                       {"Source Color Coding", NonContinuous},
	DisplayUsageTime:                        {"Display Usage Time", Continuous},
	DisplayControllerID:                     {"Display Controller ID", NonContinuous},
	DisplayFirmwareLevel:                    {"Display Firmware Level", Continuous},
	OSDButtonControl:                        {"OSD/Button Control", NonContinuous},
	OSDLanguage:                             {"OSD Language", NonContinuous},
	PowerMode:                               {"Power Mode", NonContinuous},
	ImageMode:                               {"Image Mode", NonContinuous},
	VCPVersion:                              {"VCP Version", NonContinuous},
	HorizontalPosition:                      {"Horizontal Position", Continuous},
	HorizontalSize:                          {"Horizontal Size", Continuous},
	HorizontalPincushion:                    {"Horizontal Pincushion", Continuous},
	HorizontalPincushionBalance:             {"Horizontal Pincushion Balance", Continuous},
	HorizontalConvergenceRB:                 {"Horizontal Convergence R/B", Continuous},
	HorizontalConvergenceMG:                 {"Horizontal Convergence M/G", Continuous},
	HorizontalLinearity:                     {"Horizontal Linearity", Continuous},
	HorizontalLinearityBalance:              {"Horizontal Linearity Balance", Continuous},
	VerticalPosition:                        {"Vertical Position", Continuous},
	VerticalSize:                            {"Vertical Size", Continuous},
	VerticalPincushion:                      {"Vertical Pincushion", Continuous},
	VerticalPincushionBalance:               {"Vertical Pincushion Balance", Continuous},
	VerticalConvergenceRB:                   {"Vertical Convergence R/B", Continuous},
	VerticalConvergenceMG:                   {"Vertical Convergence M/G", Continuous},
	VerticalLinearity:                       {"Vertical Linearity", Continuous},
	VerticalLinearityBalance:                {"Vertical Linearity Balance", Continuous},
	HorizontalParallelogram:                 {"Horizontal Parallelogram", Continuous},
	VerticalParallelogram:                   {"Vertical Parallelogram", Continuous},
	HorizontalKeystone:                      {"Horizontal Keystone", Continuous},
	VerticalKeystone:                        {"Vertical Keystone", Continuous},
	Rotation:                                {"Rotation", Continuous},
	TopCornerFlare:                          {"Top Corner Flare", Continuous},
	TopCornerHook:                           {"Top Corner Hook", Continuous},
	BottomCornerFlare:                       {"Bottom Corner Flare", Continuous},
	BottomCornerHook:                        {"Bottom Corner Hook", Continuous},
	HorizontalMirror:                        {"Horizontal Mirror", NonContinuous},
	VerticalMirror:                          {"Vertical Mirror", NonContinuous},
	DisplayScaling:                          {"Display Scaling", NonContinuous},
	WindowPositionTopLeftX:                  {"Window Position Top Left X", Continuous},
	WindowPositionTopLeftY:                  {"Window Position Top Left Y", Continuous},
	WindowPositionBottomRightX:              {"Window Position Bottom Right X", Continuous},
	WindowPositionBottomRightY:              {"Window Position Bottom Right Y", Continuous},
	ScanMode:                                {"Scan Mode", NonContinuous},
	Degauss:                                 {"Degauss", NonContinuous},
	NewControlValue:                         {"New Control Value", NonContinuous},
	SoftControls:                            {"Soft Controls", NonContinuous},
	ActiveControl:                           {"Active Control", NonContinuous},
	PerformancePreservation:                 {"Performance Preservation", NonContinuous},
	InputSelect:                             {"Input Select", NonContinuous},
	AmbientLightSensor:                      {"Ambient Light Sensor", NonContinuous},
	RemoteProcedureCall:                     {"Remote Procedure Call", Table},
	DisplayIdentificationDataOperation:      {"Display Identification Data Operation", Table},
	TVChannelUpDown:                         {"TV Channel Up/Down", NonContinuous},
	FlatPanelSubPixelLayout:                 {"Flat Panel Sub-Pixel Layout", NonContinuous},
	DisplayTechnologyType:                   {"Display Technology Type", NonContinuous},
	DisplayDescriptorLength:                 {"Display Descriptor Length", Continuous},
	TransmitDisplayDescriptor:               {"Transmit Display Descriptor", Table},
	EnableDisplayOfDisplayDescriptor:        {"Enable Display Of Display Descriptor", NonContinuous},
	ApplicationEnableKey:                    {"Application Enable Key", NonContinuous},
	DisplayEnableKey:                        {"Display Enable Key", NonContinuous},
	StatusIndicator:                         {"Status Indicator", NonContinuous},
	AuxiliaryDisplaySize:                    {"Auxiliary Display Size", NonContinuous},
	AuxiliaryDisplayData:                    {"Auxiliary Display Data", Table},
	OutputSelect:                            {"Output Select", NonContinuous},
	AssetTag:                                {"Asset Tag", Table},
	AuxiliaryPowerOutput:                    {"Auxiliary Power Output", NonContinuous},
	ScratchPad:                              {"Scratch Pad", NonContinuous},
	AudioSpeakerVolume:                      {"Audio: Speaker Volume", NonContinuous},
	SpeakerSelect:                           {"Speaker Select", NonContinuous},
	AudioMicrophoneVolume:                   {"Audio: Microphone Volume", Continuous},
	AudioJackConnectionStatus:               {"Audio: Jack Connection Status", NonContinuous},
	AudioMuteScreenBlank:                    {"Audio Mute/Screen Blank", NonContinuous},
	AudioTreble:                             {"Audio Treble", NonContinuous},
	AudioBass:                               {"Audio Bass", NonContinuous},
	AudioBalanceLR:                          {"Audio Balance L/R", NonContinuous},
	AudioProcessorMode:                      {"Audio Processor Mode", NonContinuous},
	MonitorStatus:                           {"Monitor Status", NonContinuous},
	PacketCount:                             {"Packet Count", Continuous},
	MonitorXOrigin:                          {"Monitor X Origin", Continuous},
	MonitorYOrigin:                          {"Monitor Y Origin", Continuous},
	HeaderErrorCount:                        {"Header Error Count", Continuous},
	BodyCRCErrorCount:                       {"Body CRC Error Count", Continuous},
	ClientID:                                {"Client ID", Continuous},
	LinkControl:                             {"Link Control", NonContinuous},
}
