package help

const ColdstartYAML = `# topwords Quick Start

arguments:
  top_n: "How many words to print, 1 to 100"
  paths: "Files or directories; directories are walked up to --max-depth levels"

merge_modes:
  exact: "Merge every file's full counts (default, true global ranking)"
  bounded: "Merge only each file's top N (less memory, approximate)"

output_formats:
  text: "Top N words, one line per word (default)"
  json: "Run report with totals and metrics"
  yaml: "Same report as json"

commands:
  basic_count: |
    topwords 10 ./docs

  several_paths: |
    topwords 25 ./notes.txt ./docs ./archive

  bounded_merge: |
    topwords count --merge bounded --workers 4 10 ./logs

  json_report: |
    topwords count --format json --per-file 5 ./docs

  shallow_walk: |
    topwords count --max-depth 1 10 .

  with_timeout: |
    topwords count --task-timeout 30s 10 /mnt/share

config_file:
  example: |
    # topwords.yaml
    top_n: 10
    paths:
      - ./docs
    workers: 4
    max_depth: 10
    merge: exact
    task_timeout: 30s
  usage: |
    topwords count --config topwords.yaml
    TOPWORDS_CONFIG=topwords.yaml topwords count

environment:
  TOPWORDS_CONFIG: "Same as --config"
  TOPWORDS_WORKERS: "Same as --workers"
  TOPWORDS_MAX_DEPTH: "Same as --max-depth"

rules:
  - "A word is any run of characters between whitespace; case is kept"
  - "Ties are broken alphabetically"
  - "Symlinks are not followed"
  - "Any unreadable file fails the whole run"
`
