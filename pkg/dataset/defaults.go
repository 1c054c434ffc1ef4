package dataset

const geofabricHint = `Download the Australian Hydrological Geospatial Fabric
(Geofabric) from the Bureau of Meteorology:
  http://www.bom.gov.au/water/geofabric/download.shtml
and unpack it into the data directory.`

// DefaultSpecs returns the built-in locator table.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Kind: Stream,
			CandidatePaths: []string{
				"SH_Network/HR_Streams.shp",
				"SH_Network/AHGFNetworkStream.shp",
				"HR_Streams/HR_Streams.shp",
				"SH_Network.shp",
				"SH_Network_GDB/SH_Network.gpkg",
				"SH_Network.gpkg",
				"SH_Network_GDB/SH_Network.gdb",
			},
			LayerKeyword: "Stream",
			NameColumns: []string{
				"Name", "NAME", "name", "HydroName",
				"RiverName", "StreamName", "GNIS_NAME",
			},
			DownloadHint: geofabricHint,
		},
		{
			Kind: Catchment,
			CandidatePaths: []string{
				"SH_Catchments/HR_Catchments.shp",
				"SH_Catchment/AHGFCatchment.shp",
				"HR_Catchments/HR_Catchments.shp",
				"SH_Catchments.shp",
				"SH_Catchments_GDB/SH_Catchments.gpkg",
				"SH_Catchments.gpkg",
				"SH_Catchments_GDB/SH_Catchments.gdb",
			},
			LayerKeyword: "Catchment",
			NameColumns: []string{
				"Name", "NAME", "name", "CatchName", "BasinName",
				"RiverName", "DrainageDivision", "RivRegName",
			},
			DownloadHint: geofabricHint,
		},
	}
}

// Find returns a copy of the spec for the kind.
func Find(specs []Spec, kind Kind) (Spec, bool) {
	for _, s := range specs {
		if s.Kind == kind {
			return s.Clone(), true
		}
	}
	return Spec{}, false
}
