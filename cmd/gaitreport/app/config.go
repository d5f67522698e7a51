package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/SadokMestiri/Gait-Analysis/internal/gait"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

type Config struct {
	DBPath        string
	PatientID     string
	SessionID     string
	IMU           string
	OutputFile    string
	Format        ImageFormat
	FontPath      string
	PeakThreshold float64

	// StartTime and EndTime bound the charted range in recording
	// seconds; negative means unbounded.
	StartTime float64
	EndTime   float64

	Width         int
	Height        int
	List          bool
	Verbose       bool
	NoAnnotations bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format:        ImagePNG,
		IMU:           "IMU0",
		PeakThreshold: gait.DefaultPeakThreshold,
		StartTime:     -1,
		EndTime:       -1,
		Width:         1200,
		Height:        400,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat string
	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.StringVar(&c.PatientID, "patient", "", "Patient ID of the recording")
	flag.StringVar(&c.SessionID, "session", "", "Session ID of the recording")
	flag.StringVar(&c.IMU, "imu", c.IMU, "IMU to chart (e.g. IMU0)")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&c.FontPath, "font", "", "Path to a TTF font for chart annotations")
	flag.Float64Var(&c.PeakThreshold, "threshold", c.PeakThreshold, "Step detection threshold for chart markers")
	flag.Float64Var(&c.StartTime, "from", c.StartTime, "Start of the charted range in recording seconds")
	flag.Float64Var(&c.EndTime, "to", c.EndTime, "End of the charted range in recording seconds")
	flag.IntVar(&c.Width, "width", c.Width, "Chart area width in pixels")
	flag.IntVar(&c.Height, "height", c.Height, "Chart area height in pixels")
	flag.BoolVar(&c.List, "list", false, "List stored recordings and exit")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable annotations such as time and amplitude scales")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	if c.List {
		if c.DBPath == "" {
			flag.Usage()
			return nil, errors.New("db path is required")
		}
		return c, nil
	}

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.PatientID == "" {
		err = errors.New("patient id is required")
	} else if c.SessionID == "" {
		err = errors.New("session id is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if c.Width <= 0 || c.Height <= 0 {
		err = fmt.Errorf("invalid chart size: %dx%d", c.Width, c.Height)
	} else if c.StartTime >= 0 && c.EndTime >= 0 && c.EndTime < c.StartTime {
		err = fmt.Errorf("invalid time range: %.3f to %.3f", c.StartTime, c.EndTime)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
