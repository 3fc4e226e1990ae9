package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mechbay/pkg/utils"
)

// Serves the local fetch cache over the same URL shapes as the upstream
// catalog, so fetch and import runs can point MECHBAY_MUL_BASE_URL at
// localhost and never touch the network.
func main() {
	_ = godotenv.Load()

	var addr = flag.String("addr", ":9000", "listen address")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := utils.LoadMulConfig()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cache": cfg.CacheDir})
	})

	router.GET("/Unit/QuickList", func(c *gin.Context) {
		typeID, err1 := strconv.Atoi(c.Query("Types"))
		minTons, err2 := strconv.Atoi(c.Query("MinTons"))
		maxTons, err3 := strconv.Atoi(c.Query("MaxTons"))
		if err1 != nil || err2 != nil || err3 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Types, MinTons and MaxTons must be integers"})
			return
		}

		name := fmt.Sprintf("quicklist-%d-%d-%d.json", typeID, minTons, maxTons)
		b, err := os.ReadFile(filepath.Join(cfg.CacheDir, name))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "partition not cached: " + name})
			return
		}
		// validate JSON so a truncated cache file doesn't silently break
		var tmp any
		if err := json.Unmarshal(b, &tmp); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": name + " is not valid JSON"})
			return
		}
		c.Data(http.StatusOK, "application/json", b)
	})

	router.GET("/Unit/Details/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
			return
		}

		b, err := os.ReadFile(filepath.Join(cfg.CacheDir, "details", fmt.Sprintf("%d.html", id)))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("detail %d not cached", id)})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", b)
	})

	logger.Infof("mirror server for %s listening on %s", cfg.CacheDir, *addr)
	logger.Fatal(router.Run(*addr))
}
