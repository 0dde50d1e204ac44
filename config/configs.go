package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

var MainRouter string
var DSN string
var Dbname string
var Storage string
var IndicatorAPI string
var MainConfig Config

// Policy constants of the scenario engine. They encode tuning decisions that
// may differ per deployment, keep them named here rather than inline in SQL.
const (
	// ContextBufferMeters is the radius of the geography buffer around a
	// project footprint used to collect nearby context territories.
	ContextBufferMeters = 3000

	// CropAreaPercent is the minimum share of a public geometry's own area
	// that its overlap with a project footprint must cover before the
	// geometry is cropped into a scenario. The boundary is inclusive.
	CropAreaPercent = 0.01

	// BuildingFunctionID marks the physical object function excluded from
	// cropping: a partial building is not a meaningful planning object.
	BuildingFunctionID = 1
)

type Config struct {
	XMLName      xml.Name `xml:"config"`
	MainRouter   string   `xml:"MainRouter"`
	Dbname       string   `xml:"dbname"`
	Host         string   `xml:"host"`
	Port         string   `xml:"port"`
	Username     string   `xml:"user"`
	Password     string   `xml:"password"`
	Storage      string   `xml:"storage"`
	IndicatorAPI string   `xml:"indicatorapi"`
}

func init() {

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
		return
	}
	MainRouter = MainConfig.MainRouter
	Dbname = MainConfig.Dbname
	Storage = MainConfig.Storage
	IndicatorAPI = MainConfig.IndicatorAPI

	DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC", MainConfig.Host, MainConfig.Username, MainConfig.Password, MainConfig.Dbname, MainConfig.Port)

}
